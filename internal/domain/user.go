package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// User is owned by the account service; this service only reads it.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the trusted caller derived from a verified token.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Email: u.Email}
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
}

// AccessPolicy decides whether an identity may run admin-only operations.
type AccessPolicy interface {
	RequireAdmin(ctx context.Context, identity Identity) error
}

type AuthUsecase interface {
	IssueToken(ctx context.Context, userID int64) (string, error)
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
}
