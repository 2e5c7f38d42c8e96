package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-biodata-backend/internal/domain"
	"go-biodata-backend/pkg/apperror"
	"go-biodata-backend/pkg/auth"
)

// TokenIssuer signs tokens for already authenticated users.
type TokenIssuer interface {
	Issue(identity auth.Identity) (string, error)
}

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   TokenIssuer
}

func NewAuthUsecase(userRepo domain.UserRepository, tokens TokenIssuer) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo, tokens: tokens}
}

// IssueToken loads the user and signs a token carrying id, username and email.
// Roles are never part of the claims.
func (u *authUsecase) IssueToken(ctx context.Context, userID int64) (string, error) {
	user, err := u.GetCurrentUser(ctx, userID)
	if err != nil {
		return "", err
	}

	token, err := u.tokens.Issue(auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(fmt.Errorf("load user %d: %w", id, err))
	}
	return user, nil
}
