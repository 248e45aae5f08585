package models

import "time"

// Container is a time-boxed recruitment campaign grouping course offerings.
type Container struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Status         ContainerStatus `json:"status" db:"status"`
	StartDate      time.Time       `json:"startDate" db:"start_date"`
	ExpirationDate time.Time       `json:"expirationDate" db:"expiration_date"`
	CreatedBy      int64           `json:"createdBy" db:"created_by"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Offerings []*Offering `json:"offerings,omitempty"`
}
