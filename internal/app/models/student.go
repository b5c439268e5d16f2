package models

// Student defines the student profile based on the 'students' table
type Student struct {
	ID           int64  `json:"id" db:"id" example:"1"`
	FirstName    string `json:"firstName" db:"first_name" example:"Grace"`
	LastName     string `json:"lastName" db:"last_name" example:"Hopper"`
	Email        string `json:"email" db:"email" example:"grace@test.com"`
	StudentID    string `json:"studentId" db:"student_id" example:"S1001"`
	DepartmentID *int64 `json:"departmentId,omitempty" db:"department_id" example:"1"`
	// AccountID is a back-reference to the owning account. Account.StudentID is authoritative.
	AccountID *int64 `json:"accountId,omitempty" db:"account_id"`

	EnrolledCourseIDs []int64 `json:"enrolledCourseIds"` // rows of 'student_courses'
}
