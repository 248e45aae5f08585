package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
)

// StudentRepository reads the student directory. It doubles as the ranking
// provider: the admission engine's only interest in a student is the score.
type StudentRepository struct {
	db Querier
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db Querier) *StudentRepository {
	return &StudentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *StudentRepository) WithTx(tx pgx.Tx) *StudentRepository {
	return &StudentRepository{db: tx}
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT id, full_name, group_number, score FROM students WHERE id = $1`

	var student models.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.FullName,
		&student.GroupNumber,
		&student.Score,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &student, nil
}

// Upsert writes a student record, updating name, group and score when the id
// already exists. This is the path the grade-system sync uses.
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (id, full_name, group_number, score)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			group_number = EXCLUDED.group_number,
			score = EXCLUDED.score
	`

	_, err := r.db.Exec(ctx, query,
		student.ID,
		student.FullName,
		student.GroupNumber,
		student.Score,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetScore retrieves a student's ranking score
func (r *StudentRepository) GetScore(ctx context.Context, id int64) (float64, error) {
	var score float64
	err := r.db.QueryRow(ctx, `SELECT score FROM students WHERE id = $1`, id).Scan(&score)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrStudentNotFound
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return score, nil
}
