package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/electivehub/internal/app/models"
)

func capacity(n int32) *int32 {
	return &n
}

func TestDecideSubmit_ManualReviewStaysSubmitted(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(10),
		InstantAccept: false,
	}

	decision := DecideSubmit(s, 99.0)
	assert.Equal(t, models.RequestSubmitted, decision.Status)
	assert.Zero(t, decision.DemoteRequestID)
}

func TestDecideSubmit_FreeSeatAcceptsImmediately(t *testing.T) {
	candidates := make([]Candidate, 0, 9)
	for i := int64(1); i <= 9; i++ {
		candidates = append(candidates, Candidate{RequestID: i, Status: models.RequestAccepted, Score: 80})
	}
	s := Snapshot{
		Capacity:      capacity(10),
		InstantAccept: true,
		Candidates:    candidates,
	}

	decision := DecideSubmit(s, 10.0)
	assert.Equal(t, models.RequestAccepted, decision.Status)
	assert.Zero(t, decision.DemoteRequestID)
}

func TestDecideSubmit_FullOfferingHigherScoreDisplacesLowest(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(3),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestAccepted, Score: 90},
			{RequestID: 2, Status: models.RequestAccepted, Score: 70},
			{RequestID: 3, Status: models.RequestAccepted, Score: 80},
		},
	}

	decision := DecideSubmit(s, 75.0)
	assert.Equal(t, models.RequestAccepted, decision.Status)
	assert.Equal(t, int64(2), decision.DemoteRequestID)
}

func TestDecideSubmit_FullOfferingLowerScoreStaysSubmitted(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(2),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestAccepted, Score: 90},
			{RequestID: 2, Status: models.RequestAccepted, Score: 80},
		},
	}

	decision := DecideSubmit(s, 60.0)
	assert.Equal(t, models.RequestSubmitted, decision.Status)
	assert.Zero(t, decision.DemoteRequestID)
}

func TestDecideSubmit_EqualScoreFavorsSeatedRequest(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(1),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestAccepted, Score: 80},
		},
	}

	decision := DecideSubmit(s, 80.0)
	assert.Equal(t, models.RequestSubmitted, decision.Status)
	assert.Zero(t, decision.DemoteRequestID)
}

func TestDecideSubmit_ZeroCapacityStaysSubmitted(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(0),
		InstantAccept: true,
	}

	decision := DecideSubmit(s, 50.0)
	assert.Equal(t, models.RequestSubmitted, decision.Status)
	assert.Zero(t, decision.DemoteRequestID)
}

func TestDecideSubmit_ZeroCapacityWithWaitersStaysSubmitted(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(0),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestSubmitted, Score: 90},
		},
	}

	decision := DecideSubmit(s, 95.0)
	assert.Equal(t, models.RequestSubmitted, decision.Status)
	assert.Zero(t, decision.DemoteRequestID)
}

func TestDecideSubmit_NilCapacityAlwaysAccepts(t *testing.T) {
	candidates := make([]Candidate, 0, 50)
	for i := int64(1); i <= 50; i++ {
		candidates = append(candidates, Candidate{RequestID: i, Status: models.RequestAccepted, Score: 95})
	}
	s := Snapshot{
		Capacity:      nil,
		InstantAccept: true,
		Candidates:    candidates,
	}

	decision := DecideSubmit(s, 1.0)
	assert.Equal(t, models.RequestAccepted, decision.Status)
	assert.Zero(t, decision.DemoteRequestID)
}

func TestDecideSubmit_SubmittedPoolDoesNotOccupySeats(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(2),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestAccepted, Score: 90},
			{RequestID: 2, Status: models.RequestSubmitted, Score: 95},
			{RequestID: 3, Status: models.RequestSubmitted, Score: 85},
		},
	}

	decision := DecideSubmit(s, 50.0)
	assert.Equal(t, models.RequestAccepted, decision.Status)
}

func TestDecideBackfill_PromotesHighestRankedWaiter(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(2),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestAccepted, Score: 90},
			{RequestID: 2, Status: models.RequestSubmitted, Score: 70},
			{RequestID: 3, Status: models.RequestSubmitted, Score: 85},
		},
	}

	promoteID, ok := DecideBackfill(s)
	require.True(t, ok)
	assert.Equal(t, int64(3), promoteID)
}

func TestDecideBackfill_EqualScoresFavorEarlierRequest(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(1),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 5, Status: models.RequestSubmitted, Score: 80},
			{RequestID: 2, Status: models.RequestSubmitted, Score: 80},
		},
	}

	promoteID, ok := DecideBackfill(s)
	require.True(t, ok)
	assert.Equal(t, int64(2), promoteID)
}

func TestDecideBackfill_NoFreeSeatDoesNothing(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(1),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestAccepted, Score: 90},
			{RequestID: 2, Status: models.RequestSubmitted, Score: 85},
		},
	}

	_, ok := DecideBackfill(s)
	assert.False(t, ok)
}

func TestDecideBackfill_NoWaitersDoesNothing(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(3),
		InstantAccept: true,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestAccepted, Score: 90},
		},
	}

	_, ok := DecideBackfill(s)
	assert.False(t, ok)
}

func TestDecideBackfill_ManualOfferingNeverBackfills(t *testing.T) {
	s := Snapshot{
		Capacity:      capacity(3),
		InstantAccept: false,
		Candidates: []Candidate{
			{RequestID: 1, Status: models.RequestSubmitted, Score: 90},
		},
	}

	_, ok := DecideBackfill(s)
	assert.False(t, ok)
}

func TestSettle_WideningCapacityPromotesInRankOrder(t *testing.T) {
	changes := Settle(capacity(3), []Candidate{
		{RequestID: 1, Status: models.RequestAccepted, Score: 60},
		{RequestID: 2, Status: models.RequestSubmitted, Score: 90},
		{RequestID: 3, Status: models.RequestSubmitted, Score: 70},
		{RequestID: 4, Status: models.RequestSubmitted, Score: 80},
	})

	assert.Equal(t, []int64{2, 4}, changes.Promote)
	assert.Empty(t, changes.Demote)
}

func TestSettle_NarrowingCapacityDemotesLowestRanked(t *testing.T) {
	changes := Settle(capacity(2), []Candidate{
		{RequestID: 1, Status: models.RequestAccepted, Score: 90},
		{RequestID: 2, Status: models.RequestAccepted, Score: 60},
		{RequestID: 3, Status: models.RequestAccepted, Score: 80},
		{RequestID: 4, Status: models.RequestAccepted, Score: 70},
	})

	assert.Empty(t, changes.Promote)
	assert.ElementsMatch(t, []int64{2, 4}, changes.Demote)
}

func TestSettle_AcceptedKeepSeatsOverHigherScoredWaiters(t *testing.T) {
	// A waiter with a better score does not evict anyone during settlement;
	// seats only change hands through submission displacement.
	changes := Settle(capacity(2), []Candidate{
		{RequestID: 1, Status: models.RequestAccepted, Score: 50},
		{RequestID: 2, Status: models.RequestAccepted, Score: 40},
		{RequestID: 3, Status: models.RequestSubmitted, Score: 99},
	})

	assert.True(t, changes.Empty())
}

func TestSettle_NilCapacityPromotesEveryWaiter(t *testing.T) {
	changes := Settle(nil, []Candidate{
		{RequestID: 1, Status: models.RequestAccepted, Score: 90},
		{RequestID: 2, Status: models.RequestSubmitted, Score: 10},
		{RequestID: 3, Status: models.RequestSubmitted, Score: 20},
	})

	assert.ElementsMatch(t, []int64{2, 3}, changes.Promote)
	assert.Empty(t, changes.Demote)
}

func TestSettle_ExactFitChangesNothing(t *testing.T) {
	changes := Settle(capacity(2), []Candidate{
		{RequestID: 1, Status: models.RequestAccepted, Score: 90},
		{RequestID: 2, Status: models.RequestAccepted, Score: 80},
	})

	assert.True(t, changes.Empty())
}
