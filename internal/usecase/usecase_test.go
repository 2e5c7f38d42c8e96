package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go-biodata-backend/internal/domain"
	"go-biodata-backend/internal/repository/memory"
	"go-biodata-backend/internal/usecase"
	"go-biodata-backend/pkg/apperror"
	"go-biodata-backend/pkg/auth"
	"go-biodata-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Mock Repositories
type MockApplicantRepo struct {
	mock.Mock
}

func (m *MockApplicantRepo) ListAll(ctx context.Context) ([]domain.Applicant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Applicant), args.Error(1)
}

func (m *MockApplicantRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Applicant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *MockApplicantRepo) GetByID(ctx context.Context, id int64) (*domain.Applicant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *MockApplicantRepo) Upsert(ctx context.Context, userID int64, input *domain.ApplicantInput) (*domain.UpsertResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UpsertResult), args.Error(1)
}

func (m *MockApplicantRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPolicy struct {
	mock.Mock
}

func (m *MockPolicy) RequireAdmin(ctx context.Context, identity domain.Identity) error {
	return m.Called(ctx, identity).Error(0)
}

func strPtr(s string) *string { return &s }

var (
	owner = domain.Identity{ID: 7, Username: "ani", Email: "ani@example.com"}
	admin = domain.Identity{ID: 1, Username: "root", Email: "root@example.com"}
)

func newApplicantUC(repo *MockApplicantRepo, policy domain.AccessPolicy) domain.ApplicantUsecase {
	return usecase.NewApplicantUsecase(repo, policy, validation.New())
}

func TestUpsertValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject blank full name without touching storage", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		uc := newApplicantUC(repo, new(MockPolicy))

		_, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{FullName: "   "})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		assert.Equal(t, "Full name is required", err.Error())
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should list every offending field", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		uc := newApplicantUC(repo, new(MockPolicy))

		_, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{
			FullName:  "Ani",
			Email:     strPtr("not-an-email"),
			BirthDate: strPtr("31-12-1999"),
		})
		require.Error(t, err)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.ElementsMatch(t, []string{
			"Email must be a valid email address",
			"Birth date must be a date formatted as YYYY-MM-DD",
		}, appErr.Details)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should reject emoji in full name", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		uc := newApplicantUC(repo, new(MockPolicy))

		_, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{FullName: "Ani \U0001F680"})
		require.Error(t, err)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, []string{"Full name must not contain emoji or special symbols"}, appErr.Details)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should accept formatted phone numbers", func(t *testing.T) {
		for _, phone := range []string{"+62 812-3456-7890", "0812-3456-7890", "(021) 555 1234"} {
			repo := new(MockApplicantRepo)
			uc := newApplicantUC(repo, new(MockPolicy))
			repo.On("Upsert", ctx, owner.ID, mock.MatchedBy(func(in *domain.ApplicantInput) bool {
				return in.Phone != nil && *in.Phone == phone
			})).Return(&domain.UpsertResult{Applicant: &domain.Applicant{ID: 1, UserID: owner.ID}}, nil).Once()

			_, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{FullName: "Ani", Phone: strPtr(phone)})
			require.NoError(t, err, phone)
			repo.AssertExpectations(t)
		}
	})

	t.Run("Should fail safely without an identity", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		uc := newApplicantUC(repo, new(MockPolicy))

		_, err := uc.Upsert(ctx, domain.Identity{}, &domain.ApplicantInput{FullName: "Ani"})
		assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpsertNormalizesInput(t *testing.T) {
	ctx := context.Background()
	repo := new(MockApplicantRepo)
	uc := newApplicantUC(repo, new(MockPolicy))

	stored := &domain.Applicant{ID: 3, UserID: owner.ID, FullName: "Ani Lestari"}
	repo.On("Upsert", ctx, owner.ID, mock.MatchedBy(func(in *domain.ApplicantInput) bool {
		return in.FullName == "Ani Lestari" &&
			in.Position == nil &&
			in.Phone != nil && *in.Phone == "+628123456789" &&
			in.Education != nil && len(in.Education) == 0 &&
			len(in.WorkHistory) == 1
	})).Return(&domain.UpsertResult{Applicant: stored, Created: true}, nil).Once()

	result, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{
		FullName:    "  Ani Lestari ",
		Position:    strPtr("   "),
		Phone:       strPtr(" +628123456789 "),
		WorkHistory: domain.RecordList{{"company": "PT Maju", "years": 2}},
	})
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, int64(3), result.Applicant.ID)
	repo.AssertExpectations(t)
}

func TestUpsertUnknownOwner(t *testing.T) {
	ctx := context.Background()
	repo := new(MockApplicantRepo)
	uc := newApplicantUC(repo, new(MockPolicy))

	repo.On("Upsert", ctx, owner.ID, mock.Anything).Return(nil, domain.ErrOwnerNotFound).Once()

	_, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{FullName: "Ani"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))
	assert.Equal(t, "User not found", err.Error())
}

func TestUpsertStorageFailureIsHidden(t *testing.T) {
	ctx := context.Background()
	repo := new(MockApplicantRepo)
	uc := newApplicantUC(repo, new(MockPolicy))

	repo.On("Upsert", ctx, owner.ID, mock.Anything).Return(nil, errors.New("connection reset")).Once()

	_, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{FullName: "Ani"})
	assert.Equal(t, http.StatusInternalServerError, apperror.CodeOf(err))
	assert.Equal(t, "Server error", err.Error())
}

func TestGetMine(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return 404 when the caller has no profile", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		uc := newApplicantUC(repo, new(MockPolicy))
		repo.On("GetByUserID", ctx, owner.ID).Return(nil, domain.ErrNotFound).Once()

		_, err := uc.GetMine(ctx, owner)
		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
		assert.Equal(t, "Applicant not found", err.Error())
	})

	t.Run("Should only query the caller's own row", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		uc := newApplicantUC(repo, new(MockPolicy))
		repo.On("GetByUserID", ctx, owner.ID).Return(&domain.Applicant{ID: 9, UserID: owner.ID}, nil).Once()

		applicant, err := uc.GetMine(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, applicant.UserID)
		repo.AssertExpectations(t)
	})
}

func TestAdminOperationsRequirePolicy(t *testing.T) {
	ctx := context.Background()
	forbidden := apperror.Forbidden("Admin access required")

	repo := new(MockApplicantRepo)
	policy := new(MockPolicy)
	policy.On("RequireAdmin", ctx, owner).Return(forbidden)
	uc := newApplicantUC(repo, policy)

	_, err := uc.ListAll(ctx, owner)
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	_, err = uc.GetByID(ctx, owner, 1)
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	err = uc.Delete(ctx, owner, 1)
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	_, err = uc.Export(ctx, owner, usecase.ExportFormatCSV)
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	// Storage must never be reached by a non-admin
	assert.Empty(t, repo.Calls)
}

func TestAdminOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("Should pass through list results", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		policy := new(MockPolicy)
		policy.On("RequireAdmin", ctx, admin).Return(nil)
		repo.On("ListAll", ctx).Return([]domain.Applicant{{ID: 2}, {ID: 1}}, nil).Once()

		applicants, err := newApplicantUC(repo, policy).ListAll(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, applicants, 2)
	})

	t.Run("Should map missing rows to 404", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		policy := new(MockPolicy)
		policy.On("RequireAdmin", ctx, admin).Return(nil)
		repo.On("GetByID", ctx, int64(42)).Return(nil, domain.ErrNotFound).Once()
		repo.On("Delete", ctx, int64(42)).Return(domain.ErrNotFound).Once()
		uc := newApplicantUC(repo, policy)

		_, err := uc.GetByID(ctx, admin, 42)
		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))

		err = uc.Delete(ctx, admin, 42)
		assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
	})

	t.Run("Should delete an existing row", func(t *testing.T) {
		repo := new(MockApplicantRepo)
		policy := new(MockPolicy)
		policy.On("RequireAdmin", ctx, admin).Return(nil)
		repo.On("Delete", ctx, int64(5)).Return(nil).Once()

		assert.NoError(t, newApplicantUC(repo, policy).Delete(ctx, admin, 5))
		repo.AssertExpectations(t)
	})
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	rows := []domain.Applicant{{
		ID:        1,
		UserID:    owner.ID,
		FullName:  "Ani Lestari",
		Username:  strPtr("ani"),
		UserEmail: strPtr("ani@example.com"),
		Education: domain.RecordList{{"school": "SMK 1"}},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}

	newUC := func() domain.ApplicantUsecase {
		repo := new(MockApplicantRepo)
		policy := new(MockPolicy)
		policy.On("RequireAdmin", ctx, admin).Return(nil)
		repo.On("ListAll", ctx).Return(rows, nil)
		return newApplicantUC(repo, policy)
	}

	t.Run("Should produce a readable workbook by default", func(t *testing.T) {
		file, err := newUC().Export(ctx, admin, "")
		require.NoError(t, err)
		assert.Contains(t, file.Filename, ".xlsx")

		wb, err := excelize.OpenReader(bytes.NewReader(file.Content))
		require.NoError(t, err)
		defer wb.Close()

		sheetRows, err := wb.GetRows("Applicants")
		require.NoError(t, err)
		require.Len(t, sheetRows, 2)
		assert.Equal(t, "ID", sheetRows[0][0])
		assert.Contains(t, sheetRows[1], "Ani Lestari")
	})

	t.Run("Should produce csv on request", func(t *testing.T) {
		file, err := newUC().Export(ctx, admin, usecase.ExportFormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "text/csv", file.ContentType)

		records, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Contains(t, records[1], `[{"school":"SMK 1"}]`)
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := newUC().Export(ctx, admin, "pdf")
		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
	})
}

func TestAccessPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("Should resolve role from storage", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByID", ctx, admin.ID).Return(&domain.User{ID: admin.ID, Role: domain.RoleAdmin}, nil).Once()
		users.On("GetByID", ctx, owner.ID).Return(&domain.User{ID: owner.ID, Role: domain.RoleStandard}, nil).Once()
		policy := usecase.NewAccessPolicy(users)

		assert.NoError(t, policy.RequireAdmin(ctx, admin))
		assert.Equal(t, http.StatusForbidden, apperror.CodeOf(policy.RequireAdmin(ctx, owner)))
	})

	t.Run("Should trust a role resolved earlier in the request", func(t *testing.T) {
		users := new(MockUserRepo)
		policy := usecase.NewAccessPolicy(users)

		assert.NoError(t, policy.RequireAdmin(domain.WithRole(ctx, domain.RoleAdmin), owner))
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Should deny unknown users", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByID", ctx, owner.ID).Return(nil, domain.ErrNotFound).Once()

		err := usecase.NewAccessPolicy(users).RequireAdmin(ctx, owner)
		assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	})

	t.Run("Should hide storage failures", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByID", ctx, owner.ID).Return(nil, errors.New("timeout")).Once()

		err := usecase.NewAccessPolicy(users).RequireAdmin(ctx, owner)
		assert.Equal(t, http.StatusInternalServerError, apperror.CodeOf(err))
	})

	t.Run("Should fail safe without an identity", func(t *testing.T) {
		err := usecase.NewAccessPolicy(new(MockUserRepo)).RequireAdmin(ctx, domain.Identity{})
		assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))
	})
}

func TestAuthIssueToken(t *testing.T) {
	ctx := context.Background()
	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	users := new(MockUserRepo)
	users.On("GetByID", ctx, owner.ID).Return(&domain.User{ID: owner.ID, Username: "ani", Email: "ani@example.com"}, nil)
	users.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound)
	uc := usecase.NewAuthUsecase(users, tokens)

	token, err := uc.IssueToken(ctx, owner.ID)
	require.NoError(t, err)

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, auth.Identity{ID: owner.ID, Username: "ani", Email: "ani@example.com"}, identity)

	_, err = uc.IssueToken(ctx, 99)
	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	status, ok := usecase.NewHealthUsecase(nil).Check(ctx)
	assert.True(t, ok)
	assert.Equal(t, "skipped", status["database"])

	status, ok = usecase.NewHealthUsecase(fakePinger{}).Check(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ok", status["database"])

	status, ok = usecase.NewHealthUsecase(fakePinger{err: errors.New("down")}).Check(ctx)
	assert.False(t, ok)
	assert.Equal(t, "degraded", status["status"])
}

func TestConcurrentFirstUpsertCreatesOneProfile(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.PutUser(domain.User{ID: owner.ID, Username: owner.Username, Email: owner.Email, Role: domain.RoleStandard})
	uc := usecase.NewApplicantUsecase(store.Applicants(), usecase.NewAccessPolicy(store.Users()), validation.New())

	const callers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[int64]struct{}{}
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := uc.Upsert(ctx, owner, &domain.ApplicantInput{FullName: "Ani"})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if result.Created {
				created++
			}
			ids[result.Applicant.ID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, store.CountApplicantsForUser(owner.ID))
}
