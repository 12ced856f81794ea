package users

import "context"

type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	// Upsert persists an externally authenticated identity, keyed by email.
	Upsert(ctx context.Context, user User) (User, error)
}
