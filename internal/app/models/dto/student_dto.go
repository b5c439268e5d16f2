package dto

import "github.com/yigit/registrar/internal/app/models"

// StudentRequest represents staff-side student create/update data
type StudentRequest struct {
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	Email        string `json:"email" binding:"omitempty,email"`
	StudentID    string `json:"studentId" binding:"required,max=50"`
	DepartmentID *int64 `json:"departmentId" binding:"omitempty,gt=0"`
}

// ToModel converts the request to a student
func (r StudentRequest) ToModel(id int64) *models.Student {
	return &models.Student{
		ID:           id,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		StudentID:    r.StudentID,
		DepartmentID: r.DepartmentID,
	}
}
