package dto

import "github.com/yigit/registrar/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents an account registration. The role comes from the route.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// AccountResponse is the public view of an account
type AccountResponse struct {
	ID        int64       `json:"id" example:"1"`
	Username  string      `json:"username" example:"student@test.com"`
	Role      models.Role `json:"role" example:"STUDENT"`
	StudentID *int64      `json:"studentId,omitempty"`
	TeacherID *int64      `json:"teacherId,omitempty"`
}

// NewAccountResponse builds an AccountResponse without the password hash
func NewAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Role:      a.Role,
		StudentID: a.StudentID,
		TeacherID: a.TeacherID,
	}
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Account AccountResponse `json:"account"`
}

// ClaimResponse is the resolved identity of the caller
type ClaimResponse struct {
	AccountID       int64       `json:"accountId"`
	Username        string      `json:"username"`
	Role            models.Role `json:"role"`
	LinkedProfileID *int64      `json:"linkedProfileId,omitempty"`
}
