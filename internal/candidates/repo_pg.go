package candidates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"verifyzen/internal/timeline"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const candidateColumns = `id, user_id, first_name, last_name, email, phone, linkedin_url, resume_key, extracted_text_key, status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, cand Candidate) error {
	const query = `
INSERT INTO candidates (id, user_id, first_name, last_name, email, phone, linkedin_url, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		cand.ID,
		cand.UserID,
		cand.FirstName,
		cand.LastName,
		cand.Email,
		nullable(cand.Phone),
		nullable(cand.LinkedInURL),
		cand.Status,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, candidateID string) (Candidate, error) {
	const query = `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 AND user_id = $2 LIMIT 1`
	return scanCandidate(r.DB.QueryRowContext(ctx, query, candidateID, userID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID, status string, limit, offset int) ([]Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
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

	list := make([]Candidate, 0)
	for rows.Next() {
		cand, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, cand)
	}
	return list, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, cand Candidate) error {
	const query = `
UPDATE candidates
SET first_name = $3, last_name = $4, email = $5, phone = $6, linkedin_url = $7, updated_at = now()
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query,
		cand.ID,
		cand.UserID,
		cand.FirstName,
		cand.LastName,
		cand.Email,
		nullable(cand.Phone),
		nullable(cand.LinkedInURL),
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) Delete(ctx context.Context, userID, candidateID string) error {
	const query = `DELETE FROM candidates WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, candidateID, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) UpdateStatus(ctx context.Context, candidateID, status string) error {
	const query = `UPDATE candidates SET status = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, candidateID, status)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PGRepo) UpdateResume(ctx context.Context, userID, candidateID, resumeKey, extractedTextKey string) error {
	const query = `
UPDATE candidates
SET resume_key = $3, extracted_text_key = $4, updated_at = now()
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, candidateID, userID, resumeKey, nullable(extractedTextKey))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ReplaceTimeline swaps the full entry set in one transaction so readers
// never observe a partially written timeline.
func (r *PGRepo) ReplaceTimeline(ctx context.Context, candidateID string, entries []timeline.Entry) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidate_timeline_entries WHERE candidate_id = $1`, candidateID); err != nil {
		return err
	}

	const insert = `
INSERT INTO candidate_timeline_entries (id, candidate_id, entry_type, title, organization, start_date, end_date, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	for i, entry := range entries {
		entryID := entry.ID
		if entryID == "" {
			entryID = uuid.NewString()
		}
		var endDate any
		if entry.EndDate != nil {
			endDate = *entry.EndDate
		}
		if _, err := tx.ExecContext(ctx, insert,
			entryID,
			candidateID,
			string(entry.Type),
			entry.Title,
			entry.Organization,
			entry.StartDate,
			endDate,
			i,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepo) GetTimeline(ctx context.Context, candidateID string) ([]timeline.Entry, error) {
	const query = `
SELECT id, entry_type, title, organization, start_date, end_date
FROM candidate_timeline_entries
WHERE candidate_id = $1
ORDER BY position ASC`
	rows, err := r.DB.QueryContext(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]timeline.Entry, 0)
	for rows.Next() {
		var entry timeline.Entry
		var entryType string
		var endDate sql.NullTime
		if err := rows.Scan(&entry.ID, &entryType, &entry.Title, &entry.Organization, &entry.StartDate, &endDate); err != nil {
			return nil, err
		}
		entry.Type = timeline.EntryType(entryType)
		if endDate.Valid {
			t := endDate.Time
			entry.EndDate = &t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (Candidate, error) {
	var cand Candidate
	var phone, linkedin, resumeKey, extractedKey sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&cand.ID,
		&cand.UserID,
		&cand.FirstName,
		&cand.LastName,
		&cand.Email,
		&phone,
		&linkedin,
		&resumeKey,
		&extractedKey,
		&cand.Status,
		&cand.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	cand.Phone = phone.String
	cand.LinkedInURL = linkedin.String
	cand.ResumeKey = resumeKey.String
	cand.ExtractedTextKey = extractedKey.String
	if updatedAt.Valid {
		cand.UpdatedAt = updatedAt.Time
	} else {
		cand.UpdatedAt = time.Now().UTC()
	}
	return cand, nil
}

func requireAffected(res sql.Result) error {
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
