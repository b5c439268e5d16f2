package models

// Department represents an academic department
type Department struct {
	ID          int64  `json:"id" db:"id" example:"1"`
	Name        string `json:"name" db:"name" example:"Computer Science"`
	Description string `json:"description" db:"description" example:"Department of Computer Science and Engineering"`
}
