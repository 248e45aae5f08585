package models

// Role defines the caller role as asserted by the upstream gateway.
type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleProfessor Role = "PROFESSOR"
	RoleStaff     Role = "STAFF"
)

// ContainerStatus represents the recruitment state of a container.
// Stored as a smallint, matching the wire values used by the deanery frontend.
type ContainerStatus int16

const (
	ContainerOpen   ContainerStatus = 0
	ContainerClosed ContainerStatus = 1
)

// OfferingStatus represents whether an offering still takes requests.
type OfferingStatus int16

const (
	OfferingOpen   OfferingStatus = 0
	OfferingClosed OfferingStatus = 1
)

// RequestStatus represents the admission state of an enrollment request.
type RequestStatus int16

const (
	RequestSubmitted RequestStatus = 0
	RequestAccepted  RequestStatus = 1
	RequestRejected  RequestStatus = 2
)

// String returns a readable status name for logs and responses.
func (s RequestStatus) String() string {
	switch s {
	case RequestSubmitted:
		return "SUBMITTED"
	case RequestAccepted:
		return "ACCEPTED"
	case RequestRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// String returns a readable status name for logs and responses.
func (s OfferingStatus) String() string {
	if s == OfferingOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// String returns a readable status name for logs and responses.
func (s ContainerStatus) String() string {
	if s == ContainerOpen {
		return "OPEN"
	}
	return "CLOSED"
}
