package candidates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"verifyzen/internal/shared/server/middleware"
	"verifyzen/internal/shared/server/respond"
)

const maxResumeSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches candidate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/candidates", h.create)
	rg.GET("/candidates", h.list)
	rg.GET("/candidates/:id", h.get)
	rg.PUT("/candidates/:id", h.update)
	rg.DELETE("/candidates/:id", h.remove)
	rg.PUT("/candidates/:id/timeline", h.replaceTimeline)
	rg.GET("/candidates/:id/timeline", h.getTimeline)
	rg.POST("/candidates/:id/resume", h.uploadResume)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid candidate payload", err.Error())
		return
	}

	cand, err := h.Svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err, "failed to create candidate")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(cand))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.Svc.List(c.Request.Context(), userID, c.Query("status"), limit, offset)
	if err != nil {
		h.writeError(c, err, "failed to list candidates")
		return
	}

	resp := make([]CandidateResponse, 0, len(list))
	for _, cand := range list {
		resp = append(resp, toResponse(cand))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	cand, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to fetch candidate")
		return
	}
	respond.OK(c, toResponse(cand))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid candidate payload", err.Error())
		return
	}

	cand, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err, "failed to update candidate")
		return
	}
	respond.OK(c, toResponse(cand))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.writeError(c, err, "failed to delete candidate")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) replaceTimeline(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var reqs []TimelineEntryRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid timeline payload", err.Error())
		return
	}

	entries, err := h.Svc.ReplaceTimeline(c.Request.Context(), userID, c.Param("id"), reqs)
	if err != nil {
		h.writeError(c, err, "failed to replace timeline")
		return
	}
	respond.OK(c, toTimelineResponse(entries))
}

func (h *Handler) getTimeline(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	entries, err := h.Svc.GetTimeline(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "failed to fetch timeline")
		return
	}
	respond.OK(c, toTimelineResponse(entries))
}

func (h *Handler) uploadResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxResumeSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	cand, err := h.Svc.UploadResume(c.Request.Context(), userID, c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		h.writeError(c, err, "failed to upload resume")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(cand))
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "candidate not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
