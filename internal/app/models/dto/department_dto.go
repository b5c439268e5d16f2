package dto

import "github.com/yigit/registrar/internal/app/models"

// DepartmentRequest represents department create/update data
type DepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

// ToModel converts the request to a department
func (r DepartmentRequest) ToModel(id int64) *models.Department {
	return &models.Department{ID: id, Name: r.Name, Description: r.Description}
}
