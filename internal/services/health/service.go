package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a new health service. A nil database means the API is
// running on in-memory repositories and the db check is skipped.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status reports overall health plus the state of each dependency.
func (s *Service) Status(ctx context.Context) map[string]any {
	status := map[string]any{"ok": true}
	if s.db == nil {
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		status["ok"] = false
		status["db"] = false
		return status
	}
	status["db"] = true
	return status
}
