package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/app/repositories"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
)

// CatalogService covers the deanery-facing directory around the allocation
// engine: containers, the course catalog, offering cards and scoped request
// listings. It adds no admission rules of its own.
type CatalogService struct {
	db    Transactor
	repos *repositories.Repositories
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(db Transactor, repos *repositories.Repositories) *CatalogService {
	return &CatalogService{
		db:    db,
		repos: repos,
	}
}

// validateContainer checks container data before creation
func validateContainer(container *models.Container, offerings []*models.Offering) error {
	if strings.TrimSpace(container.Name) == "" {
		return fmt.Errorf("%w: container name cannot be empty", apperrors.ErrValidationFailed)
	}

	if !container.ExpirationDate.After(container.StartDate) {
		return fmt.Errorf("%w: expiration date must be after start date", apperrors.ErrValidationFailed)
	}

	for _, offering := range offerings {
		if offering.MinQuantity < 0 {
			return fmt.Errorf("%w: minimum quantity cannot be negative", apperrors.ErrValidationFailed)
		}
		if offering.Quantity != nil && *offering.Quantity < offering.MinQuantity {
			return apperrors.ErrCapacityBelowMinimum
		}
	}

	return nil
}

// CreateContainer creates a recruitment container together with its offerings
// in one transaction, so a half-built container is never visible.
func (s *CatalogService) CreateContainer(ctx context.Context, container *models.Container, offerings []*models.Offering) error {
	if err := validateContainer(container, offerings); err != nil {
		return err
	}

	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		containerRepo := s.repos.ContainerRepository.WithTx(tx)
		offeringRepo := s.repos.OfferingRepository.WithTx(tx)
		courseRepo := s.repos.CourseRepository.WithTx(tx)

		if err := containerRepo.Create(ctx, container); err != nil {
			return err
		}

		for _, offering := range offerings {
			if _, err := courseRepo.GetByID(ctx, offering.CourseID); err != nil {
				return err
			}

			offering.ContainerID = container.ID
			offering.Status = models.OfferingOpen
			if err := offeringRepo.Create(ctx, offering); err != nil {
				return err
			}
		}

		container.Offerings = offerings
		return nil
	})
}

// CloseContainer closes a container and all of its offerings, ending the
// recruitment campaign.
func (s *CatalogService) CloseContainer(ctx context.Context, id int64) error {
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		containerRepo := s.repos.ContainerRepository.WithTx(tx)
		offeringRepo := s.repos.OfferingRepository.WithTx(tx)

		if err := containerRepo.UpdateStatus(ctx, id, models.ContainerClosed); err != nil {
			return err
		}

		return offeringRepo.CloseByContainer(ctx, id)
	})
}

// DeleteContainer tears a container down; offerings and requests cascade
func (s *CatalogService) DeleteContainer(ctx context.Context, id int64) error {
	return s.repos.ContainerRepository.Delete(ctx, id)
}

// GetContainer retrieves a container with its offering cards
func (s *CatalogService) GetContainer(ctx context.Context, id int64) (*models.Container, error) {
	container, err := s.repos.ContainerRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	offerings, err := s.repos.OfferingRepository.ListByContainer(ctx, id)
	if err != nil {
		return nil, err
	}

	container.Offerings = offerings
	return container, nil
}

// ListContainers retrieves all containers
func (s *CatalogService) ListContainers(ctx context.Context) ([]*models.Container, error) {
	return s.repos.ContainerRepository.GetAll(ctx)
}

// CreateCourse adds a course to the catalog
func (s *CatalogService) CreateCourse(ctx context.Context, course *models.Course) error {
	if strings.TrimSpace(course.Name) == "" {
		return fmt.Errorf("%w: course name cannot be empty", apperrors.ErrValidationFailed)
	}

	return s.repos.CourseRepository.Create(ctx, course)
}

// ListCourses retrieves the whole course catalog
func (s *CatalogService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.repos.CourseRepository.GetAll(ctx)
}

// GetOfferingCard retrieves an offering with its course and request counts
func (s *CatalogService) GetOfferingCard(ctx context.Context, id int64) (*models.Offering, error) {
	return s.repos.OfferingRepository.GetCard(ctx, id)
}

// ListOfferings retrieves the offering cards of a container
func (s *CatalogService) ListOfferings(ctx context.Context, containerID int64) ([]*models.Offering, error) {
	if _, err := s.repos.ContainerRepository.GetByID(ctx, containerID); err != nil {
		return nil, err
	}
	return s.repos.OfferingRepository.ListByContainer(ctx, containerID)
}

// AssignOfferingHead makes a professor manager of an offering
func (s *CatalogService) AssignOfferingHead(ctx context.Context, offeringID, userID int64) error {
	if _, err := s.repos.OfferingRepository.GetByID(ctx, offeringID); err != nil {
		return err
	}
	return s.repos.OfferingRepository.AddHead(ctx, offeringID, userID)
}

// IsOfferingHead reports whether the user manages the offering
func (s *CatalogService) IsOfferingHead(ctx context.Context, offeringID, userID int64) (bool, error) {
	return s.repos.OfferingRepository.IsHead(ctx, offeringID, userID)
}

// GetRequest retrieves a single request
func (s *CatalogService) GetRequest(ctx context.Context, id int64) (*models.EnrollmentRequest, error) {
	return s.repos.RequestRepository.GetByID(ctx, id)
}

// ListRequestsForStudent retrieves the student's own requests
func (s *CatalogService) ListRequestsForStudent(ctx context.Context, studentID int64) ([]*models.EnrollmentRequest, error) {
	return s.repos.RequestRepository.ListByStudent(ctx, studentID)
}

// ListRequestsForProfessor retrieves all requests against the offerings the
// professor heads.
func (s *CatalogService) ListRequestsForProfessor(ctx context.Context, userID int64) ([]*models.EnrollmentRequest, error) {
	offeringIDs, err := s.repos.OfferingRepository.HeadOfferingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repos.RequestRepository.ListByOfferings(ctx, offeringIDs)
}
