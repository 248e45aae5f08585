package models

// Student is the slice of the user directory this service reads: identity plus
// the ranking score used to break ties in automatic admission. The score is
// written by the external grade-sync process and is read-only here.
type Student struct {
	ID          int64   `json:"id" db:"id"`
	FullName    string  `json:"fullName" db:"full_name"`
	GroupNumber string  `json:"groupNumber" db:"group_number"`
	Score       float64 `json:"score" db:"score"`
}
