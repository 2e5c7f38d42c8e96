package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-biodata-backend/internal/domain"
	"go-biodata-backend/pkg/apperror"
	"go-biodata-backend/pkg/logger"
	"go-biodata-backend/pkg/security"
	"go-biodata-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const msgApplicantNotFound = "Applicant not found"

type applicantUsecase struct {
	repo     domain.ApplicantRepository
	policy   domain.AccessPolicy
	validate *validator.Validate
}

func NewApplicantUsecase(repo domain.ApplicantRepository, policy domain.AccessPolicy, validate *validator.Validate) domain.ApplicantUsecase {
	return &applicantUsecase{
		repo:     repo,
		policy:   policy,
		validate: validate,
	}
}

// ListAll returns every profile with its owner, newest first. Admin only.
func (u *applicantUsecase) ListAll(ctx context.Context, identity domain.Identity) ([]domain.Applicant, error) {
	if err := u.policy.RequireAdmin(ctx, identity); err != nil {
		return nil, err
	}

	applicants, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return applicants, nil
}

// GetMine returns the caller's own profile.
func (u *applicantUsecase) GetMine(ctx context.Context, identity domain.Identity) (*domain.Applicant, error) {
	if identity.ID <= 0 {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	applicant, err := u.repo.GetByUserID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound(msgApplicantNotFound)
		}
		return nil, apperror.Internal(err)
	}
	return applicant, nil
}

// GetByID returns any profile with its owner. Admin only.
func (u *applicantUsecase) GetByID(ctx context.Context, identity domain.Identity, id int64) (*domain.Applicant, error) {
	if err := u.policy.RequireAdmin(ctx, identity); err != nil {
		return nil, err
	}

	applicant, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound(msgApplicantNotFound)
		}
		return nil, apperror.Internal(err)
	}
	return applicant, nil
}

// Upsert creates the caller's profile on first call and rewrites it in place
// afterwards. Input is fully validated before storage is touched.
func (u *applicantUsecase) Upsert(ctx context.Context, identity domain.Identity, input *domain.ApplicantInput) (*domain.UpsertResult, error) {
	if identity.ID <= 0 {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if input == nil {
		return nil, apperror.BadRequest("Full name is required")
	}

	normalized := normalizeInput(*input)
	if normalized.FullName == "" {
		return nil, apperror.BadRequest("Full name is required")
	}
	if err := u.validate.Struct(&normalized); err != nil {
		return nil, apperror.Validation("Invalid biodata", validation.FormatValidationErrors(err))
	}

	result, err := u.repo.Upsert(ctx, identity.ID, &normalized)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal(err)
	}

	action := "updated"
	if result.Created {
		action = "created"
	}
	logger.Log.InfoContext(ctx, "Applicant biodata "+action,
		"user_id", identity.ID, "applicant_id", result.Applicant.ID)

	return result, nil
}

// Delete removes any profile. Admin only.
func (u *applicantUsecase) Delete(ctx context.Context, identity domain.Identity, id int64) error {
	if err := u.policy.RequireAdmin(ctx, identity); err != nil {
		return err
	}

	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound(msgApplicantNotFound)
		}
		return apperror.Internal(fmt.Errorf("delete applicant %d: %w", id, err))
	}

	security.DefaultLogger().LogAdminAction(ctx, security.EventApplicantDeleted, identity.ID,
		map[string]interface{}{"applicant_id": id})
	return nil
}

// normalizeInput trims free text and replaces absent lists with empty ones.
func normalizeInput(in domain.ApplicantInput) domain.ApplicantInput {
	in.FullName = strings.TrimSpace(in.FullName)
	for _, field := range []**string{
		&in.Position, &in.NationalID, &in.BirthPlace, &in.BirthDate, &in.Gender,
		&in.Religion, &in.BloodType, &in.MaritalStatus, &in.IDCardAddress,
		&in.DomicileAddress, &in.Email, &in.Phone, &in.EmergencyContact,
		&in.Skills, &in.PlacementWillingness, &in.ExpectedIncome,
	} {
		*field = trimOptional(*field)
	}
	in.Education = in.Education.Normalize()
	in.Training = in.Training.Normalize()
	in.WorkHistory = in.WorkHistory.Normalize()
	return in
}

// trimOptional maps whitespace-only text to nil so it is stored as NULL.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
