package models

// Course represents a course offered by a department and taught by a teacher.
type Course struct {
	ID           int64  `json:"id" db:"id"`
	Code         string `json:"code" db:"code"`
	Name         string `json:"name" db:"name"`
	Description  string `json:"description" db:"description"`
	DepartmentID int64  `json:"departmentId" db:"department_id"`
	TeacherID    int64  `json:"teacherId" db:"teacher_id"`

	// Derived from student enrolments, populated on read
	EnrolledStudentIDs []int64 `json:"enrolledStudentIds"`
}
