package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/cartograph/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MaxGeocodingAttempts is the number of failed attempts after which a task is no longer fetched.
const MaxGeocodingAttempts = 5

// Database is the subset of *pgxpool.Pool used by the repository.
type Database interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repository struct {
	db  Database
	log *slog.Logger
}

type Interface interface {
	FetchTasksForGeocoding(ctx context.Context, limit int) ([]models.Task, error)
	UpdateTaskAddress(ctx context.Context, taskID int, addr models.Address) error
	IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error
	MarkUnresolvable(ctx context.Context, taskID int, errMsg string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
