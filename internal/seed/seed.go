package seed

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/electivehub/internal/app/models"
	appRepos "github.com/yigit/electivehub/internal/app/repositories"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
)

// CreateDefaultData loads development fixtures: a handful of ranked students,
// a few catalog courses and one open container with offerings. It is gated by
// seed.enabled in the config and safe to run repeatedly.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	studentRepo := appRepos.NewStudentRepository(dbPool)
	courseRepo := appRepos.NewCourseRepository(dbPool)
	containerRepo := appRepos.NewContainerRepository(dbPool)
	offeringRepo := appRepos.NewOfferingRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (students/courses/container)...")
	var finalErr error

	students := []*appModels.Student{
		{ID: 1, FullName: "Alice Novak", GroupNumber: "CS-301", Score: 92.5},
		{ID: 2, FullName: "Boris Petrov", GroupNumber: "CS-301", Score: 88.0},
		{ID: 3, FullName: "Clara Iversen", GroupNumber: "CS-302", Score: 85.25},
		{ID: 4, FullName: "Deniz Kaya", GroupNumber: "CS-302", Score: 79.0},
		{ID: 5, FullName: "Elif Demir", GroupNumber: "CS-303", Score: 74.5},
	}
	for _, student := range students {
		if err := studentRepo.Upsert(ctx, student); err != nil {
			lgr.Error().Err(err).Int64("studentId", student.ID).Msg("Error seeding student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	courses := []*appModels.Course{
		{Name: "Distributed Systems", Description: "Consensus, replication and fault tolerance", Requirements: "Operating Systems"},
		{Name: "Machine Learning", Description: "Supervised and unsupervised learning in practice", Requirements: "Linear Algebra, Probability"},
		{Name: "Compiler Construction", Description: "Lexing, parsing and code generation", Requirements: "Formal Languages"},
	}
	courseIDs := make([]int64, 0, len(courses))
	for _, course := range courses {
		err := courseRepo.Create(ctx, course)
		if err != nil && !errors.Is(err, apperrors.ErrCourseExists) {
			lgr.Error().Err(err).Str("course", course.Name).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if errors.Is(err, apperrors.ErrCourseExists) {
			// Find the existing id so offerings can still reference it
			all, errGet := courseRepo.GetAll(ctx)
			if errGet != nil {
				lgr.Error().Err(errGet).Msg("Error loading existing courses")
				finalErr = errors.Join(finalErr, errGet)
				continue
			}
			for _, existing := range all {
				if existing.Name == course.Name {
					course.ID = existing.ID
					break
				}
			}
		}
		if course.ID > 0 {
			courseIDs = append(courseIDs, course.ID)
		}
	}

	containers, err := containerRepo.GetAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error loading containers")
		return errors.Join(finalErr, err)
	}
	if len(containers) > 0 {
		lgr.Info().Msg("Containers already present, skipping container seed")
		return finalErr
	}

	container := &appModels.Container{
		Name:           "Fall Electives",
		Status:         appModels.ContainerOpen,
		StartDate:      time.Now(),
		ExpirationDate: time.Now().AddDate(0, 1, 0),
		CreatedBy:      1,
	}
	if err := containerRepo.Create(ctx, container); err != nil {
		lgr.Error().Err(err).Msg("Error seeding container")
		return errors.Join(finalErr, err)
	}

	capacity := int32(15)
	for i, courseID := range courseIDs {
		offering := &appModels.Offering{
			ContainerID:   container.ID,
			CourseID:      courseID,
			Status:        appModels.OfferingOpen,
			MinQuantity:   15,
			Quantity:      &capacity,
			InstantAccept: i == 0,
		}
		if err := offeringRepo.Create(ctx, offering); err != nil {
			lgr.Error().Err(err).Int64("courseId", courseID).Msg("Error seeding offering")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int64("containerId", container.ID).Msg("Default data check/creation finished")
	return finalErr
}
