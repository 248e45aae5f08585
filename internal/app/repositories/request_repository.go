package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
)

// RequestRepository handles database operations for enrollment requests
type RequestRepository struct {
	db Querier
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db Querier) *RequestRepository {
	return &RequestRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *RequestRepository) WithTx(tx pgx.Tx) *RequestRepository {
	return &RequestRepository{db: tx}
}

// Create inserts a new request and fills in its generated id and timestamp
func (r *RequestRepository) Create(ctx context.Context, request *models.EnrollmentRequest) error {
	query := `
		INSERT INTO requests (student_id, offering_id, status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		request.StudentID,
		request.OfferingID,
		request.Status,
		request.Message,
	).Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetByID retrieves a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.EnrollmentRequest, error) {
	query := `
		SELECT id, student_id, offering_id, status, message, created_at
		FROM requests
		WHERE id = $1
	`

	var request models.EnrollmentRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.StudentID,
		&request.OfferingID,
		&request.Status,
		&request.Message,
		&request.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &request, nil
}

// ListActiveByOffering retrieves an offering's non-rejected requests together
// with the students' ranking scores. This is the candidate set the admission
// engine ranks.
func (r *RequestRepository) ListActiveByOffering(ctx context.Context, offeringID int64) ([]*models.EnrollmentRequest, error) {
	query := `
		SELECT r.id, r.student_id, r.offering_id, r.status, r.message, r.created_at,
			s.id, s.full_name, s.group_number, s.score
		FROM requests r
		JOIN students s ON s.id = r.student_id
		WHERE r.offering_id = $1 AND r.status <> $2
		ORDER BY r.id
	`

	rows, err := r.db.Query(ctx, query, offeringID, models.RequestRejected)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanRequestsWithStudents(rows)
}

// UpdateStatus sets the status of a single request
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	result, err := r.db.Exec(ctx, `UPDATE requests SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	return nil
}

// UpdateStatuses sets the status of several requests at once, used when a
// capacity change promotes or demotes a batch.
func (r *RequestRepository) UpdateStatuses(ctx context.Context, ids []int64, status models.RequestStatus) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.db.Exec(ctx, `UPDATE requests SET status = $1 WHERE id = ANY($2)`, status, ids)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// Delete removes a request row entirely (student withdrawal)
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	return nil
}

// ExistsActiveInContainer reports whether the student holds any non-rejected
// request against any offering of the container. excludeRequestID skips one
// request (pass 0 to check them all).
func (r *RequestRepository) ExistsActiveInContainer(ctx context.Context, studentID, containerID, excludeRequestID int64) (bool, error) {
	return r.existsInContainer(ctx, studentID, containerID, excludeRequestID, `r.status <> $4`, models.RequestRejected)
}

// ExistsAcceptedInContainer reports whether the student holds an ACCEPTED
// request against any offering of the container, skipping excludeRequestID.
func (r *RequestRepository) ExistsAcceptedInContainer(ctx context.Context, studentID, containerID, excludeRequestID int64) (bool, error) {
	return r.existsInContainer(ctx, studentID, containerID, excludeRequestID, `r.status = $4`, models.RequestAccepted)
}

func (r *RequestRepository) existsInContainer(ctx context.Context, studentID, containerID, excludeRequestID int64, statusCond string, statusArg models.RequestStatus) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM requests r
			JOIN offerings o ON o.id = r.offering_id
			WHERE r.student_id = $1 AND o.container_id = $2 AND r.id <> $3 AND ` + statusCond + `
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, studentID, containerID, excludeRequestID, statusArg).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return exists, nil
}

// ListByStudent retrieves all requests a student has filed, newest first
func (r *RequestRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentRequest, error) {
	query := `
		SELECT r.id, r.student_id, r.offering_id, r.status, r.message, r.created_at,
			s.id, s.full_name, s.group_number, s.score
		FROM requests r
		JOIN students s ON s.id = r.student_id
		WHERE r.student_id = $1
		ORDER BY r.created_at DESC, r.id DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanRequestsWithStudents(rows)
}

// ListByOfferings retrieves all requests against the given offerings, the
// professor-facing view across the offerings they head.
func (r *RequestRepository) ListByOfferings(ctx context.Context, offeringIDs []int64) ([]*models.EnrollmentRequest, error) {
	if len(offeringIDs) == 0 {
		return []*models.EnrollmentRequest{}, nil
	}

	query := `
		SELECT r.id, r.student_id, r.offering_id, r.status, r.message, r.created_at,
			s.id, s.full_name, s.group_number, s.score
		FROM requests r
		JOIN students s ON s.id = r.student_id
		WHERE r.offering_id = ANY($1)
		ORDER BY r.offering_id, r.id
	`

	rows, err := r.db.Query(ctx, query, offeringIDs)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	return scanRequestsWithStudents(rows)
}

func scanRequestsWithStudents(rows pgx.Rows) ([]*models.EnrollmentRequest, error) {
	requests := []*models.EnrollmentRequest{}
	for rows.Next() {
		var request models.EnrollmentRequest
		var student models.Student
		err := rows.Scan(
			&request.ID,
			&request.StudentID,
			&request.OfferingID,
			&request.Status,
			&request.Message,
			&request.CreatedAt,
			&student.ID,
			&student.FullName,
			&student.GroupNumber,
			&student.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		request.Student = &student
		requests = append(requests, &request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return requests, nil
}
