package dto

import "github.com/yigit/registrar/internal/app/models"

// StudentProfileRequest is the self-service payload for a student profile.
// ID is zero on first save and must match the linked profile afterwards.
type StudentProfileRequest struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	Email        string `json:"email" binding:"omitempty,email"`
	StudentID    string `json:"studentId" binding:"required,max=50"`
	DepartmentID *int64 `json:"departmentId" binding:"omitempty,gt=0"`
}

// TeacherProfileRequest is the self-service payload for a teacher profile
type TeacherProfileRequest struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName" binding:"required,max=100"`
	LastName     string `json:"lastName" binding:"required,max=100"`
	Email        string `json:"email" binding:"omitempty,email"`
	EmployeeID   string `json:"employeeId" binding:"required,max=50"`
	DepartmentID *int64 `json:"departmentId" binding:"omitempty,gt=0"`
}

// ToPayload converts the request to a profile payload
func (r StudentProfileRequest) ToPayload() models.ProfilePayload {
	return models.ProfilePayload{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Identifier:   r.StudentID,
		DepartmentID: r.DepartmentID,
	}
}

// ToPayload converts the request to a profile payload
func (r TeacherProfileRequest) ToPayload() models.ProfilePayload {
	return models.ProfilePayload{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Identifier:   r.EmployeeID,
		DepartmentID: r.DepartmentID,
	}
}

// DashboardResponse is the landing page data for the caller
type DashboardResponse struct {
	Username string          `json:"username"`
	Role     models.Role     `json:"role"`
	Counts   *DashboardCount `json:"counts,omitempty"`
}

// DashboardCount holds directory totals shown to staff
type DashboardCount struct {
	Students    int64 `json:"students"`
	Teachers    int64 `json:"teachers"`
	Courses     int64 `json:"courses"`
	Departments int64 `json:"departments"`
}
