package dto

import "github.com/yigit/registrar/internal/app/models"

// TeacherRequest represents staff-side teacher create/update data
type TeacherRequest struct {
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	Email        string `json:"email" binding:"omitempty,email"`
	EmployeeID   string `json:"employeeId" binding:"required,max=50"`
	DepartmentID *int64 `json:"departmentId" binding:"omitempty,gt=0"`
}

// ToModel converts the request to a teacher
func (r TeacherRequest) ToModel(id int64) *models.Teacher {
	return &models.Teacher{
		ID:           id,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		EmployeeID:   r.EmployeeID,
		DepartmentID: r.DepartmentID,
	}
}
