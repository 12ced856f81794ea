package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "verifyzen/internal/auth"
	"verifyzen/internal/candidates"
	"verifyzen/internal/reports"
	"verifyzen/internal/services/health"
	"verifyzen/internal/shared/config"
	"verifyzen/internal/shared/metrics"
	"verifyzen/internal/shared/server/middleware"
	"verifyzen/internal/shared/server/respond"
	"verifyzen/internal/uploads"
	"verifyzen/internal/users"
	"verifyzen/internal/verifications"
)

const verificationStartGroup = "VERIFICATION_START"

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config              config.Config
	Health              *health.Service
	UsersHandler        *users.Handler
	CandidatesHandler   *candidates.Handler
	VerificationHandler *verifications.Handler
	ReportsHandler      *reports.Handler
	GoogleAuth          *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if status["ok"] != true {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	// Starting a verification kicks off background work, so it gets a
	// per-user rate limit the read endpoints do not need.
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			verificationStartGroup: {Rate: 0.5, Burst: 5},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/verifications" {
				return verificationStartGroup
			}
			return ""
		},
	}))

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterAuthRoutes(api)
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.CandidatesHandler != nil {
		deps.CandidatesHandler.RegisterRoutes(api)
	}
	if deps.VerificationHandler != nil {
		deps.VerificationHandler.RegisterRoutes(api)
	}
	if deps.ReportsHandler != nil {
		deps.ReportsHandler.RegisterRoutes(api)
	}
	uploads.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
