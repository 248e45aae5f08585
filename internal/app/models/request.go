package models

import "time"

// EnrollmentRequest is a student's application to one offering. A student may
// hold at most one non-rejected request across all offerings of a container,
// and at most one request per offering.
type EnrollmentRequest struct {
	ID         int64         `json:"id" db:"id"`
	StudentID  int64         `json:"studentId" db:"student_id"`
	OfferingID int64         `json:"offeringId" db:"offering_id"`
	Status     RequestStatus `json:"status" db:"status"`
	Message    string        `json:"message" db:"message"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Student  *Student  `json:"student,omitempty"`
	Offering *Offering `json:"offering,omitempty"`
}

// Active reports whether the request still competes for a seat.
func (r *EnrollmentRequest) Active() bool {
	return r.Status != RequestRejected
}
