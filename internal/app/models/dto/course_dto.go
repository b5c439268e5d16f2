package dto

import "github.com/yigit/registrar/internal/app/models"

// CourseRequest represents course create/update data. Department and teacher are
// checked by the service so a missing value maps to a validation error.
type CourseRequest struct {
	Code         string `json:"code" binding:"required,max=50"`
	Name         string `json:"name" binding:"required,max=255"`
	Description  string `json:"description" binding:"max=1000"`
	DepartmentID int64  `json:"departmentId"`
	TeacherID    int64  `json:"teacherId"`
}

// ToModel converts the request to a course
func (r CourseRequest) ToModel(id int64) *models.Course {
	return &models.Course{
		ID:           id,
		Code:         r.Code,
		Name:         r.Name,
		Description:  r.Description,
		DepartmentID: r.DepartmentID,
		TeacherID:    r.TeacherID,
	}
}
