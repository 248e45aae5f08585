package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx used by the repositories. Both *pgxpool.Pool
// and pgx.Tx satisfy it, so every repository can run against the pool or
// inside an allocation transaction via WithTx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repositories bundles all repositories for dependency injection
type Repositories struct {
	ContainerRepository *ContainerRepository
	CourseRepository    *CourseRepository
	OfferingRepository  *OfferingRepository
	RequestRepository   *RequestRepository
	StudentRepository   *StudentRepository
}

// NewRepositories creates all repositories backed by the shared pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		ContainerRepository: NewContainerRepository(db),
		CourseRepository:    NewCourseRepository(db),
		OfferingRepository:  NewOfferingRepository(db),
		RequestRepository:   NewRequestRepository(db),
		StudentRepository:   NewStudentRepository(db),
	}
}
