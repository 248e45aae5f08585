package models

// Offering binds a course to a container and carries the admission policy:
// capacity (nil = unbounded), the staff-set capacity floor, the instant-accept
// flag and the open/closed status. Capacity and instant-accept are mutable by
// the offering's heads; status and min quantity only by deanery staff.
type Offering struct {
	ID            int64          `json:"id" db:"id"`
	ContainerID   int64          `json:"containerId" db:"container_id"`
	CourseID      int64          `json:"courseId" db:"course_id"`
	Status        OfferingStatus `json:"status" db:"status"`
	InstantAccept bool           `json:"instantAccept" db:"instant_accept"`
	MinQuantity   int32          `json:"minQuantity" db:"min_quantity"`
	Quantity      *int32         `json:"quantity" db:"quantity"`

	// Relations (populated when needed)
	Course    *Course    `json:"course,omitempty"`
	Container *Container `json:"container,omitempty"`

	// Aggregates for the course card view
	AcceptedRequests int64 `json:"acceptedRequests" db:"-"`
	ActiveRequests   int64 `json:"activeRequests" db:"-"`
}
