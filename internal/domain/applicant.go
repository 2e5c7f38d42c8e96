package domain

import (
	"context"
	"time"
)

// Applicant is the biodata record owned by exactly one user.
type Applicant struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	Position             *string    `json:"position"`
	FullName             string     `json:"full_name"`
	NationalID           *string    `json:"national_id"`
	BirthPlace           *string    `json:"birth_place"`
	BirthDate            *string    `json:"birth_date"`
	Gender               *string    `json:"gender"`
	Religion             *string    `json:"religion"`
	BloodType            *string    `json:"blood_type"`
	MaritalStatus        *string    `json:"marital_status"`
	IDCardAddress        *string    `json:"id_card_address"`
	DomicileAddress      *string    `json:"domicile_address"`
	Email                *string    `json:"email"`
	Phone                *string    `json:"phone"`
	EmergencyContact     *string    `json:"emergency_contact"`
	Education            RecordList `json:"education"`
	Training             RecordList `json:"training"`
	WorkHistory          RecordList `json:"work_history"`
	Skills               *string    `json:"skills"`
	PlacementWillingness *string    `json:"placement_willingness"`
	ExpectedIncome       *string    `json:"expected_income"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	// Owner details, only populated by admin reads
	Username  *string `json:"username,omitempty"`
	UserEmail *string `json:"user_email,omitempty"`
}

// ApplicantInput is the validated payload of a create-or-update call.
// Every call carries the full field set; omitted fields are stored as empty.
type ApplicantInput struct {
	Position             *string    `json:"position" validate:"omitempty,max=150"`
	FullName             string     `json:"full_name" validate:"required,max=200,no_emoji"`
	NationalID           *string    `json:"national_id" validate:"omitempty,max=32"`
	BirthPlace           *string    `json:"birth_place" validate:"omitempty,max=100"`
	BirthDate            *string    `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Gender               *string    `json:"gender" validate:"omitempty,max=20"`
	Religion             *string    `json:"religion" validate:"omitempty,max=50"`
	BloodType            *string    `json:"blood_type" validate:"omitempty,max=5"`
	MaritalStatus        *string    `json:"marital_status" validate:"omitempty,max=50"`
	IDCardAddress        *string    `json:"id_card_address" validate:"omitempty,max=500"`
	DomicileAddress      *string    `json:"domicile_address" validate:"omitempty,max=500"`
	Email                *string    `json:"email" validate:"omitempty,email"`
	Phone                *string    `json:"phone" validate:"omitempty,valid_phone"`
	EmergencyContact     *string    `json:"emergency_contact" validate:"omitempty,max=200"`
	Education            RecordList `json:"education"`
	Training             RecordList `json:"training"`
	WorkHistory          RecordList `json:"work_history"`
	Skills               *string    `json:"skills" validate:"omitempty,max=2000"`
	PlacementWillingness *string    `json:"placement_willingness" validate:"omitempty,max=100"`
	ExpectedIncome       *string    `json:"expected_income" validate:"omitempty,max=100"`
}

// UpsertResult tells the caller which branch a create-or-update call took.
type UpsertResult struct {
	Applicant *Applicant
	Created   bool
}

// ExportFile is a rendered applicant export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ApplicantRepository interface {
	// ListAll returns every profile with owner details, newest first.
	ListAll(ctx context.Context) ([]Applicant, error)
	GetByUserID(ctx context.Context, userID int64) (*Applicant, error)
	GetByID(ctx context.Context, id int64) (*Applicant, error)
	// Upsert atomically inserts the user's profile or rewrites it in place.
	Upsert(ctx context.Context, userID int64, input *ApplicantInput) (*UpsertResult, error)
	Delete(ctx context.Context, id int64) error
}

type ApplicantUsecase interface {
	ListAll(ctx context.Context, identity Identity) ([]Applicant, error)
	GetMine(ctx context.Context, identity Identity) (*Applicant, error)
	GetByID(ctx context.Context, identity Identity, id int64) (*Applicant, error)
	Upsert(ctx context.Context, identity Identity, input *ApplicantInput) (*UpsertResult, error)
	Delete(ctx context.Context, identity Identity, id int64) error
	Export(ctx context.Context, identity Identity, format string) (*ExportFile, error)
}
