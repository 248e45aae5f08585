package dto

// SubmitRequestRequest is a student's application to an offering
type SubmitRequestRequest struct {
	OfferingID int64  `json:"offeringId" binding:"required,min=1"`
	Message    string `json:"message" binding:"max=2000"`
}

// RequestActionRequest names the request a professor accepts or rejects
type RequestActionRequest struct {
	ID int64 `json:"id" binding:"required,min=1"`
}

// UpdateOfferingRequest carries the manager-mutable offering policy. A nil
// quantity means unbounded capacity.
type UpdateOfferingRequest struct {
	Quantity      *int32 `json:"quantity" binding:"omitempty,min=0"`
	InstantAccept bool   `json:"instantAccept"`
}

// AssignHeadRequest assigns a professor as manager of an offering
type AssignHeadRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}
