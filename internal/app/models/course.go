package models

// Course is a catalog entry that offerings reference. The catalog itself is
// flat; a course only becomes enrollable through an offering inside a container.
type Course struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	Requirements string `json:"requirements" db:"requirements"`
}
