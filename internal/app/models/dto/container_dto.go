package dto

import "time"

// CreateOfferingRequest is one course slot inside a new container
type CreateOfferingRequest struct {
	CourseID      int64  `json:"courseId" binding:"required,min=1"`
	MinQuantity   int32  `json:"minQuantity" binding:"min=0"`
	Quantity      *int32 `json:"quantity" binding:"omitempty,min=0"`
	InstantAccept bool   `json:"instantAccept"`
}

// CreateContainerRequest opens a new recruitment container with its offerings
type CreateContainerRequest struct {
	Name           string                  `json:"name" binding:"required,max=100"`
	StartDate      time.Time               `json:"startDate" binding:"required"`
	ExpirationDate time.Time               `json:"expirationDate" binding:"required"`
	Offerings      []CreateOfferingRequest `json:"offerings" binding:"dive"`
}

// CreateCourseRequest adds a course to the catalog
type CreateCourseRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
}
