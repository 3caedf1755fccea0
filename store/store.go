package store

import (
	"context"
	"errors"
	"time"

	"labourconnect/model"
)

var (
	// ErrNotFound marks an empty-but-valid lookup. Callers must not treat
	// it as a backend failure.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a mobile number is already registered.
	ErrAlreadyExists = errors.New("already exists")
)

// WorkerFilter carries the equality predicates the document store can
// evaluate. Experience and rate-range filtering happen caller-side.
type WorkerFilter struct {
	Area       string
	Profession string
	ActiveOnly bool
}

type Store interface {
	// users
	CreateUser(ctx context.Context, user model.User) (string, error)
	UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) error
	GetUserByID(ctx context.Context, userID string) (model.User, error)
	GetUserByMobile(ctx context.Context, mobile string) (model.User, error)

	// workers
	AddWorker(ctx context.Context, worker model.Worker) (string, error)
	GetWorkerByID(ctx context.Context, workerID string) (model.Worker, error)
	UpdateWorker(ctx context.Context, workerID string, updates map[string]interface{}) error
	DeactivateWorker(ctx context.Context, workerID string) error
	ListWorkers(ctx context.Context, filter WorkerFilter) ([]model.Worker, error)
	ListWorkersByProfessional(ctx context.Context, professionalID string) ([]model.Worker, error)
	CountWorkersByProfessional(ctx context.Context, professionalID string) (int, error)
	SetWorkersCount(ctx context.Context, professionalID string, count int) error

	// area/profession aggregates
	UpsertAreaAggregate(ctx context.Context, name string) error
	UpsertProfessionAggregate(ctx context.Context, code string) error
	ListAreas(ctx context.Context) ([]model.Area, error)
	ListProfessions(ctx context.Context) ([]model.Profession, error)

	// otp
	SaveOTPRecord(ctx context.Context, rec model.OTPRecord) error
	GetOTPRecord(ctx context.Context, mobile, reference string) (model.OTPRecord, error)
	UpdateOTPRecord(ctx context.Context, mobile, reference string, updates map[string]interface{}) error
	CountLiveOTPRecords(ctx context.Context, mobile string) (int, error)
	BlockMobile(ctx context.Context, mobile string, until time.Time) error
	IsMobileBlocked(ctx context.Context, mobile string) (bool, error)

	// sessions
	SaveRefreshToken(ctx context.Context, userID string, rec model.RefreshTokenRecord) error
	GetRefreshToken(ctx context.Context, userID string) (model.RefreshTokenRecord, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}
