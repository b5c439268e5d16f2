package models

// ProfilePayload is the self-service edit of a Student or Teacher profile.
// Identifier is the student number or the employee number depending on the kind.
type ProfilePayload struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Identifier   string
	DepartmentID *int64
}

// ToStudent builds the student record owned by accountID
func (p ProfilePayload) ToStudent(accountID int64) *Student {
	return &Student{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		StudentID:    p.Identifier,
		DepartmentID: p.DepartmentID,
		AccountID:    &accountID,
	}
}

// ToTeacher builds the teacher record owned by accountID
func (p ProfilePayload) ToTeacher(accountID int64) *Teacher {
	return &Teacher{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		EmployeeID:   p.Identifier,
		DepartmentID: p.DepartmentID,
		AccountID:    &accountID,
	}
}

// OwnProfile is what a principal sees on its profile page
type OwnProfile struct {
	Account *Account `json:"account"`
	Student *Student `json:"student,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
}
