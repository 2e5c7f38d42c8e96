//go:build integration

package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"go-biodata-backend/internal/domain"
	"go-biodata-backend/internal/repository/postgres"
	"go-biodata-backend/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/repository/postgres/...
func setup(t *testing.T) (*pgxpool.Pool, int64) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, database.Migrate(dsn, database.Up))

	ctx := context.Background()
	pool, err := database.NewPostgresConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE applicants, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	var userID int64
	err = pool.QueryRow(ctx,
		`INSERT INTO users (username, email, role) VALUES ('budi', 'budi@example.com', 'standard') RETURNING id`,
	).Scan(&userID)
	require.NoError(t, err)
	return pool, userID
}

func TestApplicantUpsertRoundTrip(t *testing.T) {
	pool, userID := setup(t)
	repo := postgres.NewApplicantRepository(pool)
	ctx := context.Background()

	input := &domain.ApplicantInput{
		FullName: "Budi Santoso",
		Education: domain.RecordList{
			{"school": "SMA 1", "year": 2012},
			{"university": "UI", "gpa": 3.75, "minors": []any{"math", "stats"}},
		},
	}
	first, err := repo.Upsert(ctx, userID, input)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Empty(t, first.Applicant.Training)
	require.Len(t, first.Applicant.Education, 2)
	assert.Equal(t, "UI", first.Applicant.Education[1]["university"])

	second, err := repo.Upsert(ctx, userID, &domain.ApplicantInput{FullName: "Budi S."})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Applicant.ID, second.Applicant.ID)
	assert.True(t, first.Applicant.CreatedAt.Equal(second.Applicant.CreatedAt))
	assert.True(t, second.Applicant.UpdatedAt.After(first.Applicant.UpdatedAt))
	assert.Empty(t, second.Applicant.Education)

	joined, err := repo.GetByID(ctx, second.Applicant.ID)
	require.NoError(t, err)
	require.NotNil(t, joined.Username)
	assert.Equal(t, "budi", *joined.Username)

	require.NoError(t, repo.Delete(ctx, second.Applicant.ID))
	assert.ErrorIs(t, repo.Delete(ctx, second.Applicant.ID), domain.ErrNotFound)
}

func TestApplicantConcurrentUpsert(t *testing.T) {
	pool, userID := setup(t)
	repo := postgres.NewApplicantRepository(pool)

	const workers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := repo.Upsert(context.Background(), userID, &domain.ApplicantInput{FullName: "Racer"})
			if assert.NoError(t, err) && res.Created {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	var rows int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM applicants WHERE user_id = $1`, userID).Scan(&rows))
	assert.Equal(t, 1, rows)
	assert.Equal(t, 1, created)
}

func TestApplicantUnknownOwner(t *testing.T) {
	pool, _ := setup(t)
	repo := postgres.NewApplicantRepository(pool)
	_, err := repo.Upsert(context.Background(), 999999, &domain.ApplicantInput{FullName: "Ghost"})
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}
