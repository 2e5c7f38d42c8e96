// Package memory is an in-process implementation of the repositories with the
// same uniqueness and atomicity guarantees as the PostgreSQL schema. It backs
// STORAGE_DRIVER=memory and the concurrency tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-biodata-backend/internal/domain"
)

type Store struct {
	mu         sync.RWMutex
	users      map[int64]domain.User
	applicants map[int64]*domain.Applicant
	// user_id -> applicant id, the uniqueness index
	byUser map[int64]int64
	nextID int64
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]domain.User),
		applicants: make(map[int64]*domain.Applicant),
		byUser:     make(map[int64]int64),
		now:        time.Now,
	}
}

// PutUser seeds or replaces a user row.
func (s *Store) PutUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.timestamp()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	s.users[user.ID] = user
}

// DeleteUser removes a user and cascades to the owned profile.
func (s *Store) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	if applicantID, ok := s.byUser[id]; ok {
		delete(s.applicants, applicantID)
		delete(s.byUser, id)
	}
}

func (s *Store) Users() domain.UserRepository {
	return &userRepo{store: s}
}

func (s *Store) Applicants() domain.ApplicantRepository {
	return &applicantRepo{store: s}
}

// CountApplicantsForUser reports how many rows exist for userID.
func (s *Store) CountApplicantsForUser(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.applicants {
		if a.UserID == userID {
			n++
		}
	}
	return n
}

// timestamp matches PostgreSQL microsecond precision.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

type userRepo struct {
	store *Store
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

type applicantRepo struct {
	store *Store
}

func (r *applicantRepo) ListAll(ctx context.Context) ([]domain.Applicant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]domain.Applicant, 0, len(r.store.applicants))
	for _, a := range r.store.applicants {
		out = append(out, r.withOwner(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *applicantRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Applicant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	id, ok := r.store.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a := copyApplicant(r.store.applicants[id])
	return &a, nil
}

func (r *applicantRepo) GetByID(ctx context.Context, id int64) (*domain.Applicant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	a, ok := r.store.applicants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	joined := r.withOwner(a)
	return &joined, nil
}

func (r *applicantRepo) Upsert(ctx context.Context, userID int64, input *domain.ApplicantInput) (*domain.UpsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[userID]; !ok {
		return nil, domain.ErrOwnerNotFound
	}

	row, err := applicantFromInput(userID, input)
	if err != nil {
		return nil, err
	}
	now := r.store.timestamp()

	if id, exists := r.store.byUser[userID]; exists {
		current := r.store.applicants[id]
		row.ID = current.ID
		row.CreatedAt = current.CreatedAt
		row.UpdatedAt = now
		if !row.UpdatedAt.After(current.UpdatedAt) {
			row.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
		}
		r.store.applicants[id] = row
		out := copyApplicant(row)
		return &domain.UpsertResult{Applicant: &out, Created: false}, nil
	}

	r.store.nextID++
	row.ID = r.store.nextID
	row.CreatedAt = now
	row.UpdatedAt = now
	r.store.applicants[row.ID] = row
	r.store.byUser[userID] = row.ID
	out := copyApplicant(row)
	return &domain.UpsertResult{Applicant: &out, Created: true}, nil
}

func (r *applicantRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.applicants[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.store.applicants, id)
	delete(r.store.byUser, a.UserID)
	return nil
}

// withOwner must be called with the store lock held.
func (r *applicantRepo) withOwner(a *domain.Applicant) domain.Applicant {
	out := copyApplicant(a)
	if user, ok := r.store.users[a.UserID]; ok {
		username, email := user.Username, user.Email
		out.Username = &username
		out.UserEmail = &email
	}
	return out
}

func applicantFromInput(userID int64, in *domain.ApplicantInput) (*domain.Applicant, error) {
	education, err := cloneRecords(in.Education)
	if err != nil {
		return nil, err
	}
	training, err := cloneRecords(in.Training)
	if err != nil {
		return nil, err
	}
	workHistory, err := cloneRecords(in.WorkHistory)
	if err != nil {
		return nil, err
	}
	return &domain.Applicant{
		UserID:               userID,
		Position:             in.Position,
		FullName:             in.FullName,
		NationalID:           in.NationalID,
		BirthPlace:           in.BirthPlace,
		BirthDate:            in.BirthDate,
		Gender:               in.Gender,
		Religion:             in.Religion,
		BloodType:            in.BloodType,
		MaritalStatus:        in.MaritalStatus,
		IDCardAddress:        in.IDCardAddress,
		DomicileAddress:      in.DomicileAddress,
		Email:                in.Email,
		Phone:                in.Phone,
		EmergencyContact:     in.EmergencyContact,
		Education:            education,
		Training:             training,
		WorkHistory:          workHistory,
		Skills:               in.Skills,
		PlacementWillingness: in.PlacementWillingness,
		ExpectedIncome:       in.ExpectedIncome,
	}, nil
}

// copyApplicant detaches a row from the store so callers cannot mutate it.
func copyApplicant(a *domain.Applicant) domain.Applicant {
	out := *a
	out.Position = cloneString(a.Position)
	out.NationalID = cloneString(a.NationalID)
	out.BirthPlace = cloneString(a.BirthPlace)
	out.BirthDate = cloneString(a.BirthDate)
	out.Gender = cloneString(a.Gender)
	out.Religion = cloneString(a.Religion)
	out.BloodType = cloneString(a.BloodType)
	out.MaritalStatus = cloneString(a.MaritalStatus)
	out.IDCardAddress = cloneString(a.IDCardAddress)
	out.DomicileAddress = cloneString(a.DomicileAddress)
	out.Email = cloneString(a.Email)
	out.Phone = cloneString(a.Phone)
	out.EmergencyContact = cloneString(a.EmergencyContact)
	out.Skills = cloneString(a.Skills)
	out.PlacementWillingness = cloneString(a.PlacementWillingness)
	out.ExpectedIncome = cloneString(a.ExpectedIncome)
	out.Education = mustCloneRecords(a.Education)
	out.Training = mustCloneRecords(a.Training)
	out.WorkHistory = mustCloneRecords(a.WorkHistory)
	out.Username = nil
	out.UserEmail = nil
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// cloneRecords deep-copies through the storage encoding, the same path
// PostgreSQL rows take. Lists that cannot be encoded are rejected.
func cloneRecords(l domain.RecordList) (domain.RecordList, error) {
	encoded, err := domain.EncodeRecordList(l)
	if err != nil {
		return nil, err
	}
	return domain.DecodeRecordList([]byte(encoded))
}

// mustCloneRecords copies a list that already went through cloneRecords
// on write, so a failure means the store itself is corrupt.
func mustCloneRecords(l domain.RecordList) domain.RecordList {
	out, err := cloneRecords(l)
	if err != nil {
		panic("memory: stored record list no longer encodes: " + err.Error())
	}
	return out
}
