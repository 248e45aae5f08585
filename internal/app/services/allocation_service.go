package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/electivehub/internal/app/admission"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/db"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
	"github.com/yigit/electivehub/internal/pkg/dberrors"
)

// Transactor runs a function inside one database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// OfferingStore is the offering access the allocation flow needs
type OfferingStore interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Offering, error)
	UpdatePolicy(ctx context.Context, id int64, quantity *int32, instantAccept bool) error
	GetCard(ctx context.Context, id int64) (*models.Offering, error)
}

// RequestStore is the request access the allocation flow needs
type RequestStore interface {
	Create(ctx context.Context, request *models.EnrollmentRequest) error
	GetByID(ctx context.Context, id int64) (*models.EnrollmentRequest, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error
	UpdateStatuses(ctx context.Context, ids []int64, status models.RequestStatus) error
	ListActiveByOffering(ctx context.Context, offeringID int64) ([]*models.EnrollmentRequest, error)
	ExistsActiveInContainer(ctx context.Context, studentID, containerID, excludeRequestID int64) (bool, error)
	ExistsAcceptedInContainer(ctx context.Context, studentID, containerID, excludeRequestID int64) (bool, error)
}

// ScoreProvider supplies the ranking score for a student
type ScoreProvider interface {
	GetScore(ctx context.Context, id int64) (float64, error)
}

// AllocationStores binds the stores to a transaction. The production binder
// hands out pgx-backed repositories; tests substitute in-memory fakes.
type AllocationStores interface {
	Offerings(tx pgx.Tx) OfferingStore
	Requests(tx pgx.Tx) RequestStore
	Scores(tx pgx.Tx) ScoreProvider
}

// AllocationService is the orchestrator around the admission engine. Each
// entry point runs inside one transaction that first locks the offering row,
// so mutations on one offering serialize while other offerings proceed in
// parallel. Engine errors pass through unchanged; a lost concurrency race
// surfaces as ErrSerializationFailure for the caller to retry.
type AllocationService struct {
	db     Transactor
	stores AllocationStores
	logger zerolog.Logger
}

// NewAllocationService creates a new allocation service instance
func NewAllocationService(db Transactor, stores AllocationStores, logger zerolog.Logger) *AllocationService {
	return &AllocationService{
		db:     db,
		stores: stores,
		logger: logger,
	}
}

// snapshot builds the engine's view of an offering from its live requests.
func snapshot(offering *models.Offering, requests []*models.EnrollmentRequest) admission.Snapshot {
	candidates := make([]admission.Candidate, 0, len(requests))
	for _, r := range requests {
		candidates = append(candidates, admission.Candidate{
			RequestID: r.ID,
			Status:    r.Status,
			Score:     r.Student.Score,
		})
	}
	return admission.Snapshot{
		Capacity:      offering.Quantity,
		InstantAccept: offering.InstantAccept,
		Candidates:    candidates,
	}
}

// wrapTxError converts database-level concurrency failures into the typed
// retryable error; everything else passes through untouched.
func wrapTxError(err error) error {
	if err == nil {
		return nil
	}
	if dberrors.IsSerializationFailure(err) {
		return apperrors.NewCustomError(apperrors.ErrSerializationFailure, err.Error())
	}
	return err
}

// SubmitRequest files a new enrollment request for a student. Under instant
// accept the request is admitted immediately while a seat is free; on a full
// offering a strictly higher score displaces the lowest-ranked accepted
// request, otherwise the request stays SUBMITTED.
func (s *AllocationService) SubmitRequest(ctx context.Context, studentID, offeringID int64, message string) (*models.EnrollmentRequest, error) {
	var created *models.EnrollmentRequest

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		offerings := s.stores.Offerings(tx)
		requests := s.stores.Requests(tx)

		offering, err := offerings.GetByIDForUpdate(ctx, offeringID)
		if err != nil {
			return err
		}

		if offering.Status == models.OfferingClosed {
			return apperrors.ErrOfferingClosed
		}

		exists, err := requests.ExistsActiveInContainer(ctx, studentID, offering.ContainerID, 0)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrDuplicateActiveRequest
		}

		score, err := s.stores.Scores(tx).GetScore(ctx, studentID)
		if err != nil {
			return err
		}

		active, err := requests.ListActiveByOffering(ctx, offeringID)
		if err != nil {
			return err
		}

		decision := admission.DecideSubmit(snapshot(offering, active), score)
		if decision.DemoteRequestID != 0 {
			if err := requests.UpdateStatus(ctx, decision.DemoteRequestID, models.RequestSubmitted); err != nil {
				return err
			}
		}

		created = &models.EnrollmentRequest{
			StudentID:  studentID,
			OfferingID: offeringID,
			Status:     decision.Status,
			Message:    message,
		}
		if err := requests.Create(ctx, created); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "uq_requests_student_offering") {
				return apperrors.ErrDuplicateActiveRequest
			}
			return err
		}

		s.logger.Info().
			Int64("studentId", studentID).
			Int64("offeringId", offeringID).
			Str("status", created.Status.String()).
			Int64("demoted", decision.DemoteRequestID).
			Msg("Enrollment request submitted")
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	return created, nil
}

// WithdrawRequest deletes a student's own request. If the withdrawn request
// held a seat in an instant-accept offering, the freed seat is backfilled by
// the highest-ranked submitted request.
func (s *AllocationService) WithdrawRequest(ctx context.Context, requestID, actingStudentID int64) error {
	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		offerings := s.stores.Offerings(tx)
		requests := s.stores.Requests(tx)

		request, err := requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		if request.StudentID != actingStudentID {
			return apperrors.ErrNotRequestOwner
		}

		offering, err := offerings.GetByIDForUpdate(ctx, request.OfferingID)
		if err != nil {
			return err
		}

		wasAccepted := request.Status == models.RequestAccepted
		if err := requests.Delete(ctx, request.ID); err != nil {
			return err
		}

		if offering.InstantAccept && wasAccepted {
			if err := s.backfill(ctx, requests, offering); err != nil {
				return err
			}
		}

		s.logger.Info().
			Int64("requestId", requestID).
			Int64("offeringId", offering.ID).
			Bool("freedSeat", wasAccepted).
			Msg("Enrollment request withdrawn")
		return nil
	})

	return wrapTxError(err)
}

// AcceptRequest is the manual admission path used by professors and staff for
// any offering, instant accept or not. It only enforces cross-offering
// exclusivity inside the container; capacity is intentionally not checked
// here, matching the established deanery workflow where a manual decision is
// authoritative.
func (s *AllocationService) AcceptRequest(ctx context.Context, requestID int64) (*models.EnrollmentRequest, error) {
	var accepted *models.EnrollmentRequest

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		offerings := s.stores.Offerings(tx)
		requests := s.stores.Requests(tx)

		request, err := requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		offering, err := offerings.GetByIDForUpdate(ctx, request.OfferingID)
		if err != nil {
			return err
		}

		taken, err := requests.ExistsAcceptedInContainer(ctx, request.StudentID, offering.ContainerID, request.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrAlreadyAcceptedInContainer
		}

		if err := requests.UpdateStatus(ctx, request.ID, models.RequestAccepted); err != nil {
			return err
		}

		request.Status = models.RequestAccepted
		accepted = request

		s.logger.Info().
			Int64("requestId", requestID).
			Int64("offeringId", offering.ID).
			Msg("Enrollment request accepted manually")
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	return accepted, nil
}

// RejectRequest marks a request REJECTED. When the offering runs instant
// accept and the rejection freed a seat, the seat is backfilled by the
// highest-ranked submitted request.
func (s *AllocationService) RejectRequest(ctx context.Context, requestID int64) (*models.EnrollmentRequest, error) {
	var rejected *models.EnrollmentRequest

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		offerings := s.stores.Offerings(tx)
		requests := s.stores.Requests(tx)

		request, err := requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		offering, err := offerings.GetByIDForUpdate(ctx, request.OfferingID)
		if err != nil {
			return err
		}

		if err := requests.UpdateStatus(ctx, request.ID, models.RequestRejected); err != nil {
			return err
		}
		request.Status = models.RequestRejected
		rejected = request

		if offering.InstantAccept {
			if err := s.backfill(ctx, requests, offering); err != nil {
				return err
			}
		}

		s.logger.Info().
			Int64("requestId", requestID).
			Int64("offeringId", offering.ID).
			Msg("Enrollment request rejected")
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	return rejected, nil
}

// UpdateOfferingCapacity changes an offering's capacity and instant-accept
// flag and settles the request set against the new policy: turning instant
// accept on or raising capacity promotes submitted requests in rank order
// into free seats, narrowing capacity demotes the lowest-ranked accepted
// requests down to the new ceiling.
func (s *AllocationService) UpdateOfferingCapacity(ctx context.Context, offeringID int64, quantity *int32, instantAccept bool) (*models.Offering, error) {
	var updated *models.Offering

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		offerings := s.stores.Offerings(tx)
		requests := s.stores.Requests(tx)

		offering, err := offerings.GetByIDForUpdate(ctx, offeringID)
		if err != nil {
			return err
		}

		if quantity != nil && *quantity < offering.MinQuantity {
			return apperrors.ErrCapacityBelowMinimum
		}

		if err := offerings.UpdatePolicy(ctx, offeringID, quantity, instantAccept); err != nil {
			return err
		}

		if instantAccept {
			active, err := requests.ListActiveByOffering(ctx, offeringID)
			if err != nil {
				return err
			}

			changes := admission.Settle(quantity, snapshot(offering, active).Candidates)
			if err := requests.UpdateStatuses(ctx, changes.Promote, models.RequestAccepted); err != nil {
				return err
			}
			if err := requests.UpdateStatuses(ctx, changes.Demote, models.RequestSubmitted); err != nil {
				return err
			}

			if !changes.Empty() {
				s.logger.Info().
					Int64("offeringId", offeringID).
					Int("promoted", len(changes.Promote)).
					Int("demoted", len(changes.Demote)).
					Msg("Offering settled after capacity change")
			}
		}

		updated, err = offerings.GetCard(ctx, offeringID)
		if err != nil {
			return fmt.Errorf("error reloading offering: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	return updated, nil
}

// backfill promotes the single highest-ranked submitted request into a freed
// seat, if one is actually free and anyone is waiting.
func (s *AllocationService) backfill(ctx context.Context, requests RequestStore, offering *models.Offering) error {
	active, err := requests.ListActiveByOffering(ctx, offering.ID)
	if err != nil {
		return err
	}

	promoteID, ok := admission.DecideBackfill(snapshot(offering, active))
	if !ok {
		return nil
	}

	if err := requests.UpdateStatus(ctx, promoteID, models.RequestAccepted); err != nil {
		return err
	}

	s.logger.Info().
		Int64("offeringId", offering.ID).
		Int64("promotedRequestId", promoteID).
		Msg("Freed seat backfilled")
	return nil
}
