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

// OfferingRepository handles database operations for course offerings
type OfferingRepository struct {
	db Querier
}

// NewOfferingRepository creates a new OfferingRepository
func NewOfferingRepository(db Querier) *OfferingRepository {
	return &OfferingRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *OfferingRepository) WithTx(tx pgx.Tx) *OfferingRepository {
	return &OfferingRepository{db: tx}
}

const offeringColumns = `id, container_id, course_id, status, instant_accept, min_quantity, quantity`

func scanOffering(row pgx.Row) (*models.Offering, error) {
	var offering models.Offering
	err := row.Scan(
		&offering.ID,
		&offering.ContainerID,
		&offering.CourseID,
		&offering.Status,
		&offering.InstantAccept,
		&offering.MinQuantity,
		&offering.Quantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &offering, nil
}

// GetByID retrieves an offering by ID
func (r *OfferingRepository) GetByID(ctx context.Context, id int64) (*models.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings WHERE id = $1`
	return scanOffering(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an offering and takes a row lock on it. Every
// mutating allocation operation locks the offering first so that concurrent
// operations on the same offering serialize; other offerings stay unaffected.
func (r *OfferingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings WHERE id = $1 FOR UPDATE`
	return scanOffering(r.db.QueryRow(ctx, query, id))
}

// GetCard retrieves an offering together with its course and request counts,
// the shape the course card endpoints serve.
func (r *OfferingRepository) GetCard(ctx context.Context, id int64) (*models.Offering, error) {
	query := `
		SELECT o.id, o.container_id, o.course_id, o.status, o.instant_accept, o.min_quantity, o.quantity,
			c.id, c.name, c.description, c.requirements,
			(SELECT COUNT(*) FROM requests r WHERE r.offering_id = o.id AND r.status = $2) AS accepted_requests,
			(SELECT COUNT(*) FROM requests r WHERE r.offering_id = o.id AND r.status <> $3) AS active_requests
		FROM offerings o
		JOIN courses c ON c.id = o.course_id
		WHERE o.id = $1
	`

	var offering models.Offering
	var course models.Course
	err := r.db.QueryRow(ctx, query, id, models.RequestAccepted, models.RequestRejected).Scan(
		&offering.ID,
		&offering.ContainerID,
		&offering.CourseID,
		&offering.Status,
		&offering.InstantAccept,
		&offering.MinQuantity,
		&offering.Quantity,
		&course.ID,
		&course.Name,
		&course.Description,
		&course.Requirements,
		&offering.AcceptedRequests,
		&offering.ActiveRequests,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOfferingNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	offering.Course = &course
	return &offering, nil
}

// ListByContainer retrieves all offerings of a container with their courses
// and request counts.
func (r *OfferingRepository) ListByContainer(ctx context.Context, containerID int64) ([]*models.Offering, error) {
	query := `
		SELECT o.id, o.container_id, o.course_id, o.status, o.instant_accept, o.min_quantity, o.quantity,
			c.id, c.name, c.description, c.requirements,
			(SELECT COUNT(*) FROM requests r WHERE r.offering_id = o.id AND r.status = $2) AS accepted_requests,
			(SELECT COUNT(*) FROM requests r WHERE r.offering_id = o.id AND r.status <> $3) AS active_requests
		FROM offerings o
		JOIN courses c ON c.id = o.course_id
		WHERE o.container_id = $1
		ORDER BY o.id
	`

	rows, err := r.db.Query(ctx, query, containerID, models.RequestAccepted, models.RequestRejected)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	offerings := []*models.Offering{}
	for rows.Next() {
		var offering models.Offering
		var course models.Course
		err := rows.Scan(
			&offering.ID,
			&offering.ContainerID,
			&offering.CourseID,
			&offering.Status,
			&offering.InstantAccept,
			&offering.MinQuantity,
			&offering.Quantity,
			&course.ID,
			&course.Name,
			&course.Description,
			&course.Requirements,
			&offering.AcceptedRequests,
			&offering.ActiveRequests,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		offering.Course = &course
		offerings = append(offerings, &offering)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return offerings, nil
}

// Create inserts a new offering
func (r *OfferingRepository) Create(ctx context.Context, offering *models.Offering) error {
	query := `
		INSERT INTO offerings (container_id, course_id, status, instant_accept, min_quantity, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		offering.ContainerID,
		offering.CourseID,
		offering.Status,
		offering.InstantAccept,
		offering.MinQuantity,
		offering.Quantity,
	).Scan(&offering.ID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// UpdatePolicy updates the manager-mutable fields: capacity and instant
// accept. Status and min_quantity are deliberately not touchable here.
func (r *OfferingRepository) UpdatePolicy(ctx context.Context, id int64, quantity *int32, instantAccept bool) error {
	query := `UPDATE offerings SET quantity = $1, instant_accept = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, quantity, instantAccept, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOfferingNotFound
	}

	return nil
}

// UpdateStatus sets the open/closed status of one offering (staff scope)
func (r *OfferingRepository) UpdateStatus(ctx context.Context, id int64, status models.OfferingStatus) error {
	result, err := r.db.Exec(ctx, `UPDATE offerings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrOfferingNotFound
	}

	return nil
}

// CloseByContainer closes every offering of a container
func (r *OfferingRepository) CloseByContainer(ctx context.Context, containerID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE offerings SET status = $1 WHERE container_id = $2`,
		models.OfferingClosed, containerID)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// AddHead assigns a professor as head of an offering
func (r *OfferingRepository) AddHead(ctx context.Context, offeringID, userID int64) error {
	query := squirrel.Insert("offering_heads").
		Columns("offering_id", "user_id").
		Values(offeringID, userID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// IsHead reports whether the user is assigned as head of the offering
func (r *OfferingRepository) IsHead(ctx context.Context, offeringID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM offering_heads WHERE offering_id = $1 AND user_id = $2)`
	err := r.db.QueryRow(ctx, query, offeringID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// HeadOfferingIDs lists the offerings a professor manages
func (r *OfferingRepository) HeadOfferingIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT offering_id FROM offering_heads WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}
