package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
)

// ContainerRepository handles database operations for recruitment containers
type ContainerRepository struct {
	db Querier
}

// NewContainerRepository creates a new ContainerRepository
func NewContainerRepository(db Querier) *ContainerRepository {
	return &ContainerRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *ContainerRepository) WithTx(tx pgx.Tx) *ContainerRepository {
	return &ContainerRepository{db: tx}
}

// Create inserts a new container
func (r *ContainerRepository) Create(ctx context.Context, container *models.Container) error {
	query := `
		INSERT INTO containers (name, status, start_date, expiration_date, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		container.Name,
		container.Status,
		container.StartDate,
		container.ExpirationDate,
		container.CreatedBy,
	).Scan(&container.ID, &container.CreatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByID retrieves a container by ID
func (r *ContainerRepository) GetByID(ctx context.Context, id int64) (*models.Container, error) {
	query := `
		SELECT id, name, status, start_date, expiration_date, created_by, created_at
		FROM containers
		WHERE id = $1
	`

	var container models.Container
	err := r.db.QueryRow(ctx, query, id).Scan(
		&container.ID,
		&container.Name,
		&container.Status,
		&container.StartDate,
		&container.ExpirationDate,
		&container.CreatedBy,
		&container.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrContainerNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &container, nil
}

// GetAll retrieves all containers, newest first
func (r *ContainerRepository) GetAll(ctx context.Context) ([]*models.Container, error) {
	query := `
		SELECT id, name, status, start_date, expiration_date, created_by, created_at
		FROM containers
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	containers := []*models.Container{}
	for rows.Next() {
		var container models.Container
		err := rows.Scan(
			&container.ID,
			&container.Name,
			&container.Status,
			&container.StartDate,
			&container.ExpirationDate,
			&container.CreatedBy,
			&container.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		containers = append(containers, &container)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return containers, nil
}

// UpdateStatus sets the container status
func (r *ContainerRepository) UpdateStatus(ctx context.Context, id int64, status models.ContainerStatus) error {
	result, err := r.db.Exec(ctx, `UPDATE containers SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrContainerNotFound
	}

	return nil
}

// Delete removes a container; offerings and requests cascade at the schema level
func (r *ContainerRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("containers").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrContainerNotFound
	}

	return nil
}
