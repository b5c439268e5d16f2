package models

import "time"

// Account is a login identity. StudentID/TeacherID is set iff the account owns that
// profile, and an account never holds both.
type Account struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"student@test.com"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role" example:"STUDENT"`
	StudentID    *int64    `json:"studentId,omitempty" db:"student_id"`
	TeacherID    *int64    `json:"teacherId,omitempty" db:"teacher_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// LinkedProfileID returns the profile id linked for the account's own role
func (a *Account) LinkedProfileID() *int64 {
	switch a.Role {
	case RoleStudent:
		return a.StudentID
	case RoleTeacher:
		return a.TeacherID
	}
	return nil
}

// RoleClaim is the per-request result of resolving a principal. It must not outlive the request.
type RoleClaim struct {
	AccountID       int64
	Username        string
	Role            Role
	LinkedProfileID *int64
}

// IsLinked reports whether the claim carries a profile link
func (c RoleClaim) IsLinked() bool {
	return c.LinkedProfileID != nil
}
