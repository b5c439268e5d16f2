package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

func TestErrorResponseMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.ErrPrincipalNotFound, http.StatusUnauthorized, dto.ErrorCodePrincipalNotFound},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.NewCustomError(apperrors.ErrForbidden, "role STUDENT may not perform students:list"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.ErrNotAuthorizedForResource, http.StatusForbidden, dto.ErrorCodeNotResourceOwner},
		{fmt.Errorf("save: %w", apperrors.ErrDuplicateUsername), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrLinkConflict, http.StatusConflict, dto.ErrorCodeProfileAlreadyLinked},
		{apperrors.ErrTeacherHasCourses, http.StatusConflict, dto.ErrorCodeResourceConflict},
		{fmt.Errorf("get: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, detail := errorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
		})
	}
}

func TestMessageOfUsesCustomMessage(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", apperrors.ErrStudentNotFound)
	assert.Equal(t, apperrors.ErrStudentNotFound.(*apperrors.CustomError).Message, messageOf(err))
	assert.Equal(t, "plain", messageOf(errors.New("plain")))
}
