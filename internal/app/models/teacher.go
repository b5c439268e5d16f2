package models

// Teacher defines the teacher profile based on the 'teachers' table
type Teacher struct {
	ID           int64  `json:"id" db:"id" example:"1"`
	FirstName    string `json:"firstName" db:"first_name" example:"Ada"`
	LastName     string `json:"lastName" db:"last_name" example:"Lovelace"`
	Email        string `json:"email" db:"email" example:"ada@test.com"`
	EmployeeID   string `json:"employeeId" db:"employee_id" example:"T1001"`
	DepartmentID *int64 `json:"departmentId,omitempty" db:"department_id" example:"1"`
	// AccountID is a back-reference to the owning account. Account.TeacherID is authoritative.
	AccountID *int64 `json:"accountId,omitempty" db:"account_id"`
}
