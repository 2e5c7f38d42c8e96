package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-biodata-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgForeignKeyViolation = "23503"
)

// applicantFields is the canonical column order shared by every read and by
// both upsert branches, so all paths return the same row shape.
var applicantFields = []string{
	"id", "user_id", "position", "full_name", "national_id", "birth_place", "birth_date",
	"gender", "religion", "blood_type", "marital_status", "id_card_address", "domicile_address",
	"email", "phone", "emergency_contact", "education", "training", "work_history",
	"skills", "placement_willingness", "expected_income", "created_at", "updated_at",
}

// writableFields are the columns a create-or-update call replaces wholesale.
var writableFields = []string{
	"position", "full_name", "national_id", "birth_place", "birth_date",
	"gender", "religion", "blood_type", "marital_status", "id_card_address", "domicile_address",
	"email", "phone", "emergency_contact", "education", "training", "work_history",
	"skills", "placement_willingness", "expected_income",
}

func applicantColumns(alias string) string {
	if alias == "" {
		return strings.Join(applicantFields, ", ")
	}
	cols := make([]string, len(applicantFields))
	for i, f := range applicantFields {
		cols[i] = alias + "." + f
	}
	return strings.Join(cols, ", ")
}

var (
	selectJoinedQuery = `
		SELECT ` + applicantColumns("a") + `, u.username, u.email
		FROM applicants a
		JOIN users u ON a.user_id = u.id`

	upsertQuery = buildUpsertQuery()
)

func buildUpsertQuery() string {
	placeholders := make([]string, len(writableFields))
	updates := make([]string, len(writableFields))
	for i, f := range writableFields {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		updates[i] = fmt.Sprintf("%s = EXCLUDED.%s", f, f)
	}

	// ON CONFLICT makes the existence check and the write a single atomic
	// statement: a concurrent insert for the same user_id is turned into the
	// update branch by the unique index. xmax = 0 only for freshly inserted rows.
	return `
		INSERT INTO applicants (user_id, ` + strings.Join(writableFields, ", ") + `)
		VALUES ($1, ` + strings.Join(placeholders, ", ") + `)
		ON CONFLICT (user_id) DO UPDATE SET
			` + strings.Join(updates, ",\n\t\t\t") + `,
			updated_at = GREATEST(NOW(), applicants.updated_at + INTERVAL '1 microsecond')
		RETURNING ` + applicantColumns("") + `, (xmax = 0) AS inserted`
}

type applicantRepo struct {
	db *pgxpool.Pool
}

func NewApplicantRepository(db *pgxpool.Pool) domain.ApplicantRepository {
	return &applicantRepo{db: db}
}

func (r *applicantRepo) ListAll(ctx context.Context) ([]domain.Applicant, error) {
	rows, err := r.db.Query(ctx, selectJoinedQuery+` ORDER BY a.created_at DESC, a.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	applicants := make([]domain.Applicant, 0)
	for rows.Next() {
		a, err := scanApplicant(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan applicant: %w", err)
		}
		applicants = append(applicants, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return applicants, nil
}

func (r *applicantRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Applicant, error) {
	query := `SELECT ` + applicantColumns("") + ` FROM applicants WHERE user_id = $1`
	a, err := scanApplicant(r.db.QueryRow(ctx, query, userID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get applicant by user: %w", err)
	}
	return a, nil
}

func (r *applicantRepo) GetByID(ctx context.Context, id int64) (*domain.Applicant, error) {
	a, err := scanApplicant(r.db.QueryRow(ctx, selectJoinedQuery+` WHERE a.id = $1`, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get applicant: %w", err)
	}
	return a, nil
}

func (r *applicantRepo) Upsert(ctx context.Context, userID int64, input *domain.ApplicantInput) (*domain.UpsertResult, error) {
	education, err := domain.EncodeRecordList(input.Education)
	if err != nil {
		return nil, err
	}
	training, err := domain.EncodeRecordList(input.Training)
	if err != nil {
		return nil, err
	}
	workHistory, err := domain.EncodeRecordList(input.WorkHistory)
	if err != nil {
		return nil, err
	}

	// jsonb params are passed as text: it works in both simple and extended protocol.
	args := []any{
		userID,
		input.Position, input.FullName, input.NationalID, input.BirthPlace, input.BirthDate,
		input.Gender, input.Religion, input.BloodType, input.MaritalStatus, input.IDCardAddress,
		input.DomicileAddress, input.Email, input.Phone, input.EmergencyContact,
		education, training, workHistory,
		input.Skills, input.PlacementWillingness, input.ExpectedIncome,
	}

	var inserted bool
	a, err := scanApplicant(r.db.QueryRow(ctx, upsertQuery, args...), false, &inserted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("upsert applicant: %w", err)
	}
	return &domain.UpsertResult{Applicant: a, Created: inserted}, nil
}

func (r *applicantRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM applicants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete applicant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanApplicant reads one row in applicantFields order, followed by the owner
// columns when withOwner is set and then any extra destinations.
func scanApplicant(row pgx.Row, withOwner bool, extra ...any) (*domain.Applicant, error) {
	var a domain.Applicant
	var education, training, workHistory []byte

	dest := []any{
		&a.ID, &a.UserID, &a.Position, &a.FullName, &a.NationalID, &a.BirthPlace, &a.BirthDate,
		&a.Gender, &a.Religion, &a.BloodType, &a.MaritalStatus, &a.IDCardAddress, &a.DomicileAddress,
		&a.Email, &a.Phone, &a.EmergencyContact, &education, &training, &workHistory,
		&a.Skills, &a.PlacementWillingness, &a.ExpectedIncome, &a.CreatedAt, &a.UpdatedAt,
	}
	if withOwner {
		dest = append(dest, &a.Username, &a.UserEmail)
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if a.Education, err = domain.DecodeRecordList(education); err != nil {
		return nil, err
	}
	if a.Training, err = domain.DecodeRecordList(training); err != nil {
		return nil, err
	}
	if a.WorkHistory, err = domain.DecodeRecordList(workHistory); err != nil {
		return nil, err
	}
	return &a, nil
}
