// Package admission holds the decision core of the enrollment system: given a
// snapshot of one offering's requests, it decides which requests hold ACCEPTED
// status. It performs no I/O; the allocation service loads the snapshot, asks
// for a decision and persists the resulting status changes in one transaction.
package admission

import (
	"sort"

	"github.com/yigit/electivehub/internal/app/models"
)

// Candidate is a snapshot row of one non-rejected request against an offering.
type Candidate struct {
	RequestID int64
	Status    models.RequestStatus
	Score     float64
}

// Snapshot captures an offering's admission policy and its competing requests
// at the start of an operation. Candidates must not contain rejected requests.
type Snapshot struct {
	Capacity      *int32 // nil means unbounded
	InstantAccept bool
	Candidates    []Candidate
}

// SubmitDecision is the outcome of a new submission against an offering.
type SubmitDecision struct {
	// Status the new request is persisted with.
	Status models.RequestStatus
	// DemoteRequestID, when non-zero, names the accepted request that loses
	// its seat to the new submission.
	DemoteRequestID int64
}

// Changes lists the status transitions needed to settle an offering after a
// policy change. Promotions go SUBMITTED -> ACCEPTED, demotions the reverse.
type Changes struct {
	Promote []int64
	Demote  []int64
}

// Empty reports whether no transitions are needed.
func (c Changes) Empty() bool {
	return len(c.Promote) == 0 && len(c.Demote) == 0
}

// rank orders candidates by score descending; equal scores keep the earlier
// request first (id ascending), which keeps allocation deterministic.
func rank(candidates []Candidate) []Candidate {
	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].RequestID < ranked[j].RequestID
	})
	return ranked
}

func (s Snapshot) byStatus(status models.RequestStatus) []Candidate {
	var out []Candidate
	for _, c := range s.Candidates {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// hasFreeSeat reports whether one more request can be accepted without
// breaching capacity. acceptedCount is the current ACCEPTED count.
func hasFreeSeat(capacity *int32, acceptedCount int) bool {
	return capacity == nil || acceptedCount < int(*capacity)
}

// DecideSubmit decides the status of a brand-new request with the given
// student score. When the offering is full, the new request displaces the
// lowest-ranked accepted one only on a strictly greater score; equal scores
// favor the request that was there first.
func DecideSubmit(s Snapshot, score float64) SubmitDecision {
	if !s.InstantAccept {
		return SubmitDecision{Status: models.RequestSubmitted}
	}

	accepted := s.byStatus(models.RequestAccepted)
	if hasFreeSeat(s.Capacity, len(accepted)) {
		return SubmitDecision{Status: models.RequestAccepted}
	}

	// Full with nobody seated means capacity is zero; there is no one to
	// displace and no seat to take.
	if len(accepted) == 0 {
		return SubmitDecision{Status: models.RequestSubmitted}
	}

	ranked := rank(accepted)
	lowest := ranked[len(ranked)-1]
	if score > lowest.Score {
		return SubmitDecision{
			Status:          models.RequestAccepted,
			DemoteRequestID: lowest.RequestID,
		}
	}

	return SubmitDecision{Status: models.RequestSubmitted}
}

// DecideBackfill fills exactly one freed seat after an accepted request left
// the offering (withdrawal or rejection). The snapshot must already exclude
// the departed request. It returns the highest-ranked submitted request, or
// ok=false when there is nothing to promote or no seat is actually free.
func DecideBackfill(s Snapshot) (promoteID int64, ok bool) {
	if !s.InstantAccept {
		return 0, false
	}

	accepted := s.byStatus(models.RequestAccepted)
	if !hasFreeSeat(s.Capacity, len(accepted)) {
		return 0, false
	}

	submitted := s.byStatus(models.RequestSubmitted)
	if len(submitted) == 0 {
		return 0, false
	}

	return rank(submitted)[0].RequestID, true
}

// Settle computes the transitions that bring an offering in line with a new
// capacity while instant accept is (or becomes) active. Already-accepted
// requests keep their seats as long as capacity allows: free seats are filled
// from the submitted pool in rank order, and only an excess over capacity
// demotes the lowest-ranked accepted requests.
func Settle(capacity *int32, candidates []Candidate) Changes {
	var changes Changes
	s := Snapshot{Capacity: capacity, Candidates: candidates}
	accepted := s.byStatus(models.RequestAccepted)

	if capacity != nil && len(accepted) > int(*capacity) {
		ranked := rank(accepted)
		for _, c := range ranked[int(*capacity):] {
			changes.Demote = append(changes.Demote, c.RequestID)
		}
		return changes
	}

	free := -1 // unbounded
	if capacity != nil {
		free = int(*capacity) - len(accepted)
	}

	for _, c := range rank(s.byStatus(models.RequestSubmitted)) {
		if free == 0 {
			break
		}
		changes.Promote = append(changes.Promote, c.RequestID)
		if free > 0 {
			free--
		}
	}

	return changes
}
