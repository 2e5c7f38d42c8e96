package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-biodata-backend/internal/domain"
	"go-biodata-backend/pkg/apperror"
)

type accessPolicy struct {
	userRepo domain.UserRepository
}

// NewAccessPolicy resolves roles from the users table on every request, so a
// demotion takes effect immediately instead of waiting for token expiry.
func NewAccessPolicy(userRepo domain.UserRepository) domain.AccessPolicy {
	return &accessPolicy{userRepo: userRepo}
}

func (p *accessPolicy) RequireAdmin(ctx context.Context, identity domain.Identity) error {
	if identity.ID <= 0 {
		return apperror.Unauthorized("User not authenticated")
	}

	// A role already resolved earlier in this request is trusted.
	if role, ok := domain.RoleFromContext(ctx); ok {
		return checkAdmin(role)
	}

	user, err := p.userRepo.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.Forbidden("Admin access required")
		}
		return apperror.Internal(fmt.Errorf("resolve role: %w", err))
	}
	return checkAdmin(user.Role)
}

func checkAdmin(role domain.Role) error {
	if role != domain.RoleAdmin {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}
