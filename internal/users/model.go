package users

import "time"

// Roles assignable to accounts. New registrations default to recruiter.
const (
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
	RoleViewer    = "viewer"
)

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Company      string     `json:"company"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
