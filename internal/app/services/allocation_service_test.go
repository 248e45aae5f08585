package services

import (
	"context"
	"sort"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/electivehub/internal/app/models"
	"github.com/yigit/electivehub/internal/db"
	"github.com/yigit/electivehub/internal/pkg/apperrors"
)

// fakeTransactor runs the function directly; the in-memory stores ignore the
// nil transaction handle.
type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

// memoryWorld is a single in-memory offering with its requests and the score
// table, standing in for the database in allocation tests.
type memoryWorld struct {
	offering *models.Offering
	requests map[int64]*models.EnrollmentRequest
	scores   map[int64]float64
	nextID   int64
}

func newMemoryWorld(offering *models.Offering) *memoryWorld {
	return &memoryWorld{
		offering: offering,
		requests: map[int64]*models.EnrollmentRequest{},
		scores:   map[int64]float64{},
		nextID:   1,
	}
}

func (w *memoryWorld) addRequest(studentID int64, status models.RequestStatus) *models.EnrollmentRequest {
	r := &models.EnrollmentRequest{
		ID:         w.nextID,
		StudentID:  studentID,
		OfferingID: w.offering.ID,
		Status:     status,
	}
	w.requests[r.ID] = r
	w.nextID++
	return r
}

func (w *memoryWorld) Offerings(pgx.Tx) OfferingStore { return (*memoryOfferings)(w) }
func (w *memoryWorld) Requests(pgx.Tx) RequestStore   { return (*memoryRequests)(w) }
func (w *memoryWorld) Scores(pgx.Tx) ScoreProvider    { return (*memoryScores)(w) }

type memoryOfferings memoryWorld

func (m *memoryOfferings) GetByIDForUpdate(ctx context.Context, id int64) (*models.Offering, error) {
	if m.offering == nil || m.offering.ID != id {
		return nil, apperrors.ErrOfferingNotFound
	}
	copied := *m.offering
	return &copied, nil
}

func (m *memoryOfferings) UpdatePolicy(ctx context.Context, id int64, quantity *int32, instantAccept bool) error {
	m.offering.Quantity = quantity
	m.offering.InstantAccept = instantAccept
	return nil
}

func (m *memoryOfferings) GetCard(ctx context.Context, id int64) (*models.Offering, error) {
	copied := *m.offering
	for _, r := range m.requests {
		if r.Status == models.RequestAccepted {
			copied.AcceptedRequests++
		}
		if r.Active() {
			copied.ActiveRequests++
		}
	}
	return &copied, nil
}

type memoryRequests memoryWorld

func (m *memoryRequests) Create(ctx context.Context, request *models.EnrollmentRequest) error {
	request.ID = m.nextID
	m.nextID++
	m.requests[request.ID] = request
	return nil
}

func (m *memoryRequests) GetByID(ctx context.Context, id int64) (*models.EnrollmentRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memoryRequests) Delete(ctx context.Context, id int64) error {
	delete(m.requests, id)
	return nil
}

func (m *memoryRequests) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	r, ok := m.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	r.Status = status
	return nil
}

func (m *memoryRequests) UpdateStatuses(ctx context.Context, ids []int64, status models.RequestStatus) error {
	for _, id := range ids {
		if err := m.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryRequests) ListActiveByOffering(ctx context.Context, offeringID int64) ([]*models.EnrollmentRequest, error) {
	var out []*models.EnrollmentRequest
	for _, r := range m.requests {
		if r.OfferingID != offeringID || !r.Active() {
			continue
		}
		copied := *r
		copied.Student = &models.Student{ID: r.StudentID, Score: m.scores[r.StudentID]}
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRequests) ExistsActiveInContainer(ctx context.Context, studentID, containerID, excludeRequestID int64) (bool, error) {
	for _, r := range m.requests {
		if r.StudentID == studentID && r.ID != excludeRequestID && r.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRequests) ExistsAcceptedInContainer(ctx context.Context, studentID, containerID, excludeRequestID int64) (bool, error) {
	for _, r := range m.requests {
		if r.StudentID == studentID && r.ID != excludeRequestID && r.Status == models.RequestAccepted {
			return true, nil
		}
	}
	return false, nil
}

type memoryScores memoryWorld

func (m *memoryScores) GetScore(ctx context.Context, id int64) (float64, error) {
	score, ok := m.scores[id]
	if !ok {
		return 0, apperrors.ErrStudentNotFound
	}
	return score, nil
}

func capacityOf(n int32) *int32 {
	return &n
}

func newService(world *memoryWorld) *AllocationService {
	return NewAllocationService(fakeTransactor{}, world, zerolog.Nop())
}

func statusOf(t *testing.T, world *memoryWorld, id int64) models.RequestStatus {
	t.Helper()
	r, ok := world.requests[id]
	require.True(t, ok, "request %d missing", id)
	return r.Status
}

func TestSubmitRequest_ClosedOfferingRejected(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, Status: models.OfferingClosed})
	svc := newService(world)

	_, err := svc.SubmitRequest(context.Background(), 1, 1, "")
	assert.ErrorIs(t, err, apperrors.ErrOfferingClosed)
	assert.Empty(t, world.requests)
}

func TestSubmitRequest_DuplicateActiveInContainer(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true})
	world.scores[7] = 80
	world.addRequest(7, models.RequestSubmitted)
	svc := newService(world)

	_, err := svc.SubmitRequest(context.Background(), 7, 1, "")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateActiveRequest)
}

func TestSubmitRequest_RejectedRequestDoesNotBlockResubmission(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(15)})
	world.scores[7] = 80
	old := world.addRequest(7, models.RequestRejected)
	svc := newService(world)

	created, err := svc.SubmitRequest(context.Background(), 7, 1, "second try")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, created.Status)
	assert.NotEqual(t, old.ID, created.ID)
}

func TestSubmitRequest_InstantAcceptWithFreeSeat(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(2)})
	world.scores[1] = 90
	svc := newService(world)

	created, err := svc.SubmitRequest(context.Background(), 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, created.Status)
}

func TestSubmitRequest_ZeroCapacityOfferingQueues(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(0)})
	world.scores[1] = 90
	svc := newService(world)

	created, err := svc.SubmitRequest(context.Background(), 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestSubmitted, created.Status)
}

func TestSubmitRequest_FullOfferingDisplacesLowestScore(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(2)})
	world.scores[1] = 90
	world.scores[2] = 60
	world.scores[3] = 75
	seatA := world.addRequest(1, models.RequestAccepted)
	seatB := world.addRequest(2, models.RequestAccepted)
	svc := newService(world)

	created, err := svc.SubmitRequest(context.Background(), 3, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, created.Status)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, seatA.ID))
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, seatB.ID))
}

func TestSubmitRequest_FullOfferingEqualScoreStaysSubmitted(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(1)})
	world.scores[1] = 80
	world.scores[2] = 80
	seated := world.addRequest(1, models.RequestAccepted)
	svc := newService(world)

	created, err := svc.SubmitRequest(context.Background(), 2, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.RequestSubmitted, created.Status)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, seated.ID))
}

func TestSubmitRequest_ManualOfferingAlwaysSubmitted(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: false, Quantity: capacityOf(30)})
	world.scores[1] = 99
	svc := newService(world)

	created, err := svc.SubmitRequest(context.Background(), 1, 1, "please")
	require.NoError(t, err)
	assert.Equal(t, models.RequestSubmitted, created.Status)
	assert.Equal(t, "please", created.Message)
}

func TestWithdrawRequest_OwnerOnly(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1})
	r := world.addRequest(1, models.RequestSubmitted)
	svc := newService(world)

	err := svc.WithdrawRequest(context.Background(), r.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotRequestOwner)
	assert.Contains(t, world.requests, r.ID)
}

func TestWithdrawRequest_FreedSeatBackfillsTopWaiter(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(1)})
	world.scores[1] = 90
	world.scores[2] = 70
	world.scores[3] = 85
	seated := world.addRequest(1, models.RequestAccepted)
	waiterLow := world.addRequest(2, models.RequestSubmitted)
	waiterHigh := world.addRequest(3, models.RequestSubmitted)
	svc := newService(world)

	err := svc.WithdrawRequest(context.Background(), seated.ID, 1)
	require.NoError(t, err)
	assert.NotContains(t, world.requests, seated.ID)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, waiterHigh.ID))
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, waiterLow.ID))
}

func TestWithdrawRequest_SubmittedWithdrawalDoesNotBackfill(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(1)})
	world.scores[1] = 90
	world.scores[2] = 70
	seated := world.addRequest(1, models.RequestAccepted)
	waiter := world.addRequest(2, models.RequestSubmitted)
	leaving := world.addRequest(3, models.RequestSubmitted)
	world.scores[3] = 60
	svc := newService(world)

	err := svc.WithdrawRequest(context.Background(), leaving.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, seated.ID))
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, waiter.ID))
}

func TestAcceptRequest_EnforcesContainerExclusivity(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1})
	world.addRequest(1, models.RequestAccepted)
	pending := world.addRequest(1, models.RequestSubmitted)
	svc := newService(world)

	_, err := svc.AcceptRequest(context.Background(), pending.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyAcceptedInContainer)
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, pending.ID))
}

func TestAcceptRequest_ManualAcceptIgnoresCapacity(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, Quantity: capacityOf(1)})
	world.scores[1] = 90
	world.scores[2] = 50
	world.addRequest(1, models.RequestAccepted)
	pending := world.addRequest(2, models.RequestSubmitted)
	svc := newService(world)

	accepted, err := svc.AcceptRequest(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, accepted.Status)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, pending.ID))
}

func TestRejectRequest_FreedSeatBackfills(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(1)})
	world.scores[1] = 90
	world.scores[2] = 70
	seated := world.addRequest(1, models.RequestAccepted)
	waiter := world.addRequest(2, models.RequestSubmitted)
	svc := newService(world)

	rejected, err := svc.RejectRequest(context.Background(), seated.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, waiter.ID))
}

func TestRejectRequest_ManualOfferingDoesNotBackfill(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: false, Quantity: capacityOf(5)})
	seated := world.addRequest(1, models.RequestAccepted)
	waiter := world.addRequest(2, models.RequestSubmitted)
	world.scores[2] = 90
	svc := newService(world)

	_, err := svc.RejectRequest(context.Background(), seated.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, waiter.ID))
}

func TestUpdateOfferingCapacity_BelowMinimumRejected(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, MinQuantity: 15, Quantity: capacityOf(20)})
	svc := newService(world)

	_, err := svc.UpdateOfferingCapacity(context.Background(), 1, capacityOf(10), false)
	assert.ErrorIs(t, err, apperrors.ErrCapacityBelowMinimum)
	assert.Equal(t, int32(20), *world.offering.Quantity)
}

func TestUpdateOfferingCapacity_WideningPromotesWaiters(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, MinQuantity: 1, InstantAccept: true, Quantity: capacityOf(1)})
	world.scores[1] = 90
	world.scores[2] = 70
	world.scores[3] = 85
	world.addRequest(1, models.RequestAccepted)
	waiterLow := world.addRequest(2, models.RequestSubmitted)
	waiterHigh := world.addRequest(3, models.RequestSubmitted)
	svc := newService(world)

	updated, err := svc.UpdateOfferingCapacity(context.Background(), 1, capacityOf(2), true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, waiterHigh.ID))
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, waiterLow.ID))
	assert.Equal(t, int64(2), updated.AcceptedRequests)
}

func TestUpdateOfferingCapacity_NarrowingDemotesLowestRanked(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, MinQuantity: 1, InstantAccept: true, Quantity: capacityOf(3)})
	world.scores[1] = 90
	world.scores[2] = 60
	world.scores[3] = 80
	top := world.addRequest(1, models.RequestAccepted)
	bottom := world.addRequest(2, models.RequestAccepted)
	middle := world.addRequest(3, models.RequestAccepted)
	svc := newService(world)

	_, err := svc.UpdateOfferingCapacity(context.Background(), 1, capacityOf(2), true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, top.ID))
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, middle.ID))
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, bottom.ID))
}

func TestUpdateOfferingCapacity_ManualOfferingSkipsSettlement(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, MinQuantity: 1, InstantAccept: false, Quantity: capacityOf(1)})
	world.scores[1] = 90
	waiter := world.addRequest(1, models.RequestSubmitted)
	svc := newService(world)

	_, err := svc.UpdateOfferingCapacity(context.Background(), 1, capacityOf(5), false)
	require.NoError(t, err)
	assert.Equal(t, models.RequestSubmitted, statusOf(t, world, waiter.ID))
}

func TestUpdateOfferingCapacity_UnboundedPromotesEveryWaiter(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, MinQuantity: 1, InstantAccept: true, Quantity: capacityOf(1)})
	world.scores[1] = 90
	world.scores[2] = 10
	world.scores[3] = 20
	world.addRequest(1, models.RequestAccepted)
	waiterA := world.addRequest(2, models.RequestSubmitted)
	waiterB := world.addRequest(3, models.RequestSubmitted)
	svc := newService(world)

	_, err := svc.UpdateOfferingCapacity(context.Background(), 1, nil, true)
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, waiterA.ID))
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, waiterB.ID))
}

func TestSubmitThenWithdrawRoundTrip(t *testing.T) {
	world := newMemoryWorld(&models.Offering{ID: 1, InstantAccept: true, Quantity: capacityOf(1)})
	world.scores[1] = 90
	world.scores[2] = 80
	svc := newService(world)

	first, err := svc.SubmitRequest(context.Background(), 1, 1, "")
	require.NoError(t, err)
	require.Equal(t, models.RequestAccepted, first.Status)

	second, err := svc.SubmitRequest(context.Background(), 2, 1, "")
	require.NoError(t, err)
	require.Equal(t, models.RequestSubmitted, second.Status)

	require.NoError(t, svc.WithdrawRequest(context.Background(), first.ID, 1))
	assert.Equal(t, models.RequestAccepted, statusOf(t, world, second.ID))
}
