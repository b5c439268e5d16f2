package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/dberrors"
)

const accountColumns = `id, username, password_hash, role, student_id, teacher_id, created_at`

// AccountRepository handles database operations for login accounts
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	var role string
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &role, &a.StudentID, &a.TeacherID, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Role = models.Role(role)
	return &a, nil
}

// FindByID retrieves an account by ID. It returns nil when no row matches.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving account: %w", err)
	}
	return account, nil
}

// FindByUsername retrieves an account by its exact username. It returns nil when no row matches.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving account by username: %w", err)
	}
	return account, nil
}

// ExistsByUsername checks whether an account with the username exists
func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE username = $1)`, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}
	return exists, nil
}

// Save inserts an account without an ID, otherwise updates it in place
func (r *AccountRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == 0 {
		err := r.db.QueryRow(ctx, `
			INSERT INTO accounts (username, password_hash, role, student_id, teacher_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			account.Username, account.PasswordHash, string(account.Role), account.StudentID, account.TeacherID,
		).Scan(&account.ID, &account.CreatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "accounts_username_key") {
				return nil, apperrors.ErrDuplicateUsername
			}
			return nil, fmt.Errorf("error creating account: %w", err)
		}
		return account, nil
	}

	cmdTag, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET username = $1, password_hash = $2, role = $3, student_id = $4, teacher_id = $5
		WHERE id = $6`,
		account.Username, account.PasswordHash, string(account.Role), account.StudentID, account.TeacherID, account.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "accounts_username_key") {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrPrincipalNotFound
	}

	return account, nil
}

// Count returns the number of accounts
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting accounts: %w", err)
	}
	return count, nil
}

// LinkStudent points an unlinked account at a student record
func (r *AccountRepository) LinkStudent(ctx context.Context, accountID, studentID int64) error {
	return r.link(ctx, `
		UPDATE accounts SET student_id = $1
		WHERE id = $2 AND student_id IS NULL AND teacher_id IS NULL`,
		accountID, studentID)
}

// LinkTeacher points an unlinked account at a teacher record
func (r *AccountRepository) LinkTeacher(ctx context.Context, accountID, teacherID int64) error {
	return r.link(ctx, `
		UPDATE accounts SET teacher_id = $1
		WHERE id = $2 AND student_id IS NULL AND teacher_id IS NULL`,
		accountID, teacherID)
}

func (r *AccountRepository) link(ctx context.Context, query string, accountID, profileID int64) error {
	cmdTag, err := r.db.Exec(ctx, query, profileID, accountID)
	if err != nil {
		return fmt.Errorf("error linking account: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLinkConflict
	}
	return nil
}

// ClearStudentLink unlinks any account that points at the student
func (r *AccountRepository) ClearStudentLink(ctx context.Context, studentID int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE accounts SET student_id = NULL WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("error clearing student link: %w", err)
	}
	return nil
}

// ClearTeacherLink unlinks any account that points at the teacher
func (r *AccountRepository) ClearTeacherLink(ctx context.Context, teacherID int64) error {
	if _, err := r.db.Exec(ctx, `UPDATE accounts SET teacher_id = NULL WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("error clearing teacher link: %w", err)
	}
	return nil
}
