package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"matching constraint", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "students_account_id_key"}, "students_account_id_key", true},
		{"wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "accounts_username_key"}), "accounts_username_key", true},
		{"other constraint", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "teachers_account_id_key"}, "students_account_id_key", false},
		{"foreign key code", &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "students_account_id_key"}, "students_account_id_key", false},
		{"plain error", errors.New("boom"), "students_account_id_key", false},
		{"nil", nil, "students_account_id_key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateConstraintError(tt.err, tt.constraint))
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolation, ConstraintName: "courses_department_id_fkey"}, true},
		{"wrapped", fmt.Errorf("delete: %w", &pgconn.PgError{Code: foreignKeyViolation}), true},
		{"unique", &pgconn.PgError{Code: uniqueViolation}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsForeignKeyViolation(tt.err))
		})
	}
}
