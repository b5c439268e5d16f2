package memory

import (
	"context"
	"time"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// AccountRepository stores login accounts in memory
type AccountRepository struct {
	sess *session
}

func copyAccount(a models.Account) *models.Account {
	a.StudentID = cloneID(a.StudentID)
	a.TeacherID = cloneID(a.TeacherID)
	return &a
}

// FindByID retrieves an account by ID. It returns nil when absent.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	var out *models.Account
	err := r.sess.run(ctx, func(data *state) error {
		if a, ok := data.accounts[id]; ok {
			out = copyAccount(a)
		}
		return nil
	})
	return out, err
}

// FindByUsername retrieves an account by its exact username. It returns nil when absent.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var out *models.Account
	err := r.sess.run(ctx, func(data *state) error {
		for _, a := range data.accounts {
			if a.Username == username {
				out = copyAccount(a)
				break
			}
		}
		return nil
	})
	return out, err
}

// ExistsByUsername checks whether an account with the username exists
func (r *AccountRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	account, err := r.FindByUsername(ctx, username)
	return account != nil, err
}

// Save inserts an account without an ID, otherwise updates it in place
func (r *AccountRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	err := r.sess.run(ctx, func(data *state) error {
		if account.ID != 0 {
			if _, ok := data.accounts[account.ID]; !ok {
				return apperrors.ErrPrincipalNotFound
			}
		}
		for id, other := range data.accounts {
			if id != account.ID && other.Username == account.Username {
				return apperrors.ErrDuplicateUsername
			}
		}

		if account.ID == 0 {
			data.lastAccountID++
			account.ID = data.lastAccountID
			account.CreatedAt = time.Now().UTC()
		}
		data.accounts[account.ID] = *copyAccount(*account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Count returns the number of accounts
func (r *AccountRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.sess.run(ctx, func(data *state) error {
		n = int64(len(data.accounts))
		return nil
	})
	return n, err
}

// LinkStudent points an unlinked account at a student record
func (r *AccountRepository) LinkStudent(ctx context.Context, accountID, studentID int64) error {
	return r.link(ctx, accountID, func(a *models.Account) { a.StudentID = &studentID })
}

// LinkTeacher points an unlinked account at a teacher record
func (r *AccountRepository) LinkTeacher(ctx context.Context, accountID, teacherID int64) error {
	return r.link(ctx, accountID, func(a *models.Account) { a.TeacherID = &teacherID })
}

func (r *AccountRepository) link(ctx context.Context, accountID int64, set func(a *models.Account)) error {
	return r.sess.run(ctx, func(data *state) error {
		a, ok := data.accounts[accountID]
		if !ok || a.StudentID != nil || a.TeacherID != nil {
			return apperrors.ErrLinkConflict
		}
		set(&a)
		data.accounts[accountID] = a
		return nil
	})
}

// ClearStudentLink unlinks any account that points at the student
func (r *AccountRepository) ClearStudentLink(ctx context.Context, studentID int64) error {
	return r.sess.run(ctx, func(data *state) error {
		for id, a := range data.accounts {
			if a.StudentID != nil && *a.StudentID == studentID {
				a.StudentID = nil
				data.accounts[id] = a
			}
		}
		return nil
	})
}

// ClearTeacherLink unlinks any account that points at the teacher
func (r *AccountRepository) ClearTeacherLink(ctx context.Context, teacherID int64) error {
	return r.sess.run(ctx, func(data *state) error {
		for id, a := range data.accounts {
			if a.TeacherID != nil && *a.TeacherID == teacherID {
				a.TeacherID = nil
				data.accounts[id] = a
			}
		}
		return nil
	})
}
