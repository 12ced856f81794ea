package verifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"verifyzen/internal/registry"
	"verifyzen/internal/timeline"
)

// PGRepo implements Repo using Postgres. Findings and flag lists are stored
// as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const verificationColumns = `id, candidate_id, user_id, verification_type, status, priority, risk_score,
timeline, employment, education, flags, recommendations, report_key, error_message,
started_at, completed_at, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, v Verification) error {
	const query = `
INSERT INTO verifications (id, candidate_id, user_id, verification_type, status, priority, risk_score, flags, recommendations, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, '[]', '[]', now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		v.ID,
		v.CandidateID,
		v.UserID,
		v.Type,
		v.Status,
		v.Priority,
		v.RiskScore,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, verificationID string) (Verification, error) {
	const query = `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1 LIMIT 1`
	return scanVerification(r.DB.QueryRowContext(ctx, query, verificationID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID, status, candidateID string, limit, offset int) ([]Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if candidateID != "" {
		args = append(args, candidateID)
		query += fmt.Sprintf(" AND candidate_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Verification, 0)
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

func (r *PGRepo) MarkInProgress(ctx context.Context, verificationID string, startedAt time.Time) error {
	const query = `UPDATE verifications SET status = $2, started_at = $3, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, verificationID, StatusInProgress, startedAt)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) Complete(ctx context.Context, verificationID string, outcome Outcome) error {
	timelineJSON, err := marshalOrNil(outcome.Timeline)
	if err != nil {
		return err
	}
	employmentJSON, err := marshalOrNil(outcome.Employment)
	if err != nil {
		return err
	}
	educationJSON, err := marshalOrNil(outcome.Education)
	if err != nil {
		return err
	}
	flagsJSON, err := json.Marshal(emptyIfNil(outcome.Flags))
	if err != nil {
		return err
	}
	recommendationsJSON, err := json.Marshal(emptyIfNil(outcome.Recommendations))
	if err != nil {
		return err
	}

	const query = `
UPDATE verifications
SET status = $2, risk_score = $3, timeline = $4, employment = $5, education = $6,
    flags = $7, recommendations = $8, error_message = NULL, completed_at = $9, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		verificationID,
		StatusCompleted,
		outcome.RiskScore,
		timelineJSON,
		employmentJSON,
		educationJSON,
		flagsJSON,
		recommendationsJSON,
		outcome.CompletedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) Fail(ctx context.Context, verificationID, errorMessage string, completedAt time.Time) error {
	const query = `
UPDATE verifications
SET status = $2, error_message = $3, completed_at = $4, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, verificationID, StatusFailed, errorMessage, completedAt)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) SetReportKey(ctx context.Context, verificationID, reportKey string) error {
	const query = `UPDATE verifications SET report_key = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, verificationID, reportKey)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerification(row rowScanner) (Verification, error) {
	var v Verification
	var timelineJSON, employmentJSON, educationJSON, flagsJSON, recommendationsJSON []byte
	var reportKey, errorMessage sql.NullString
	var startedAt, completedAt, updatedAt sql.NullTime
	err := row.Scan(
		&v.ID,
		&v.CandidateID,
		&v.UserID,
		&v.Type,
		&v.Status,
		&v.Priority,
		&v.RiskScore,
		&timelineJSON,
		&employmentJSON,
		&educationJSON,
		&flagsJSON,
		&recommendationsJSON,
		&reportKey,
		&errorMessage,
		&startedAt,
		&completedAt,
		&v.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Verification{}, ErrNotFound
		}
		return Verification{}, err
	}

	if len(timelineJSON) > 0 {
		var analysis timeline.Analysis
		if err := json.Unmarshal(timelineJSON, &analysis); err != nil {
			return Verification{}, fmt.Errorf("decode timeline analysis: %w", err)
		}
		v.Timeline = &analysis
	}
	if len(employmentJSON) > 0 {
		var findings []registry.EmploymentFinding
		if err := json.Unmarshal(employmentJSON, &findings); err != nil {
			return Verification{}, fmt.Errorf("decode employment findings: %w", err)
		}
		v.Employment = findings
	}
	if len(educationJSON) > 0 {
		var findings []registry.EducationFinding
		if err := json.Unmarshal(educationJSON, &findings); err != nil {
			return Verification{}, fmt.Errorf("decode education findings: %w", err)
		}
		v.Education = findings
	}
	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &v.Flags); err != nil {
			return Verification{}, fmt.Errorf("decode flags: %w", err)
		}
	}
	if len(recommendationsJSON) > 0 {
		if err := json.Unmarshal(recommendationsJSON, &v.Recommendations); err != nil {
			return Verification{}, fmt.Errorf("decode recommendations: %w", err)
		}
	}
	v.ReportKey = reportKey.String
	v.ErrorMessage = errorMessage.String
	if startedAt.Valid {
		t := startedAt.Time
		v.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		v.CompletedAt = &t
	}
	if updatedAt.Valid {
		v.UpdatedAt = updatedAt.Time
	}
	return v, nil
}

func marshalOrNil(value any) (any, error) {
	switch typed := value.(type) {
	case *timeline.Analysis:
		if typed == nil {
			return nil, nil
		}
	case []registry.EmploymentFinding:
		if typed == nil {
			return nil, nil
		}
	case []registry.EducationFinding:
		if typed == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func requireAffected(res sql.Result) error {
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
