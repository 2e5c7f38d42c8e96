package usecase

import "context"

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	db Pinger
}

// NewHealthUsecase accepts a nil Pinger for storage backends without a connection.
func NewHealthUsecase(db Pinger) HealthUsecase {
	return &healthUsecase{db: db}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{
		"status":   "ok",
		"database": "skipped",
	}
	if u.db == nil {
		return status, true
	}
	if err := u.db.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
		return status, false
	}
	status["database"] = "ok"
	return status, true
}
