// Package seed creates the default departments and demo accounts
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// DefaultDepartments are created when the directory has no departments
var DefaultDepartments = []models.Department{
	{Name: "Computer Science", Description: "Department of Computer Science"},
	{Name: "Mathematics", Description: "Department of Mathematics"},
}

// DemoAccount describes a seeded login and the profile it owns, if any
type DemoAccount struct {
	Username string
	Password string
	Role     models.Role
	Student  *models.Student
	Teacher  *models.Teacher
}

// DemoAccounts are created one by one, each only when its username is free
var DemoAccounts = []DemoAccount{
	{
		Username: "student@test.com",
		Password: "student123",
		Role:     models.RoleStudent,
		Student: &models.Student{
			FirstName: "Default",
			LastName:  "Student",
			Email:     "student@test.com",
			StudentID: "S1001",
		},
	},
	{
		Username: "teacher@test.com",
		Password: "teacher123",
		Role:     models.RoleTeacher,
		Teacher: &models.Teacher{
			FirstName:  "Default",
			LastName:   "Teacher",
			Email:      "teacher@test.com",
			EmployeeID: "T1001",
		},
	},
	// Staff account without a profile
	{
		Username: "admin@test.com",
		Password: "admin123",
		Role:     models.RoleTeacher,
	},
}

// CreateDefaultData seeds departments and demo accounts. It is idempotent and keeps going
// after a failure; all errors are joined into the returned error.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, hasher auth.PasswordHasher, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Departments/Accounts)...")
	var finalErr error

	if err := seedDepartments(ctx, repos, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default departments")
		finalErr = errors.Join(finalErr, err)
	}

	for _, demo := range DemoAccounts {
		created, err := seedAccount(ctx, repos, hasher, demo)
		if err != nil {
			lgr.Error().Err(err).Str("username", demo.Username).Msg("Error creating demo account")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if created {
			lgr.Info().Str("username", demo.Username).Str("role", string(demo.Role)).Msg("Demo account created")
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check/creation complete.")
	}
	return finalErr
}

func seedDepartments(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger) error {
	count, err := repos.DepartmentRepository.Count(ctx)
	if err != nil {
		return fmt.Errorf("count departments: %w", err)
	}
	if count > 0 {
		return nil
	}

	var joined error
	for _, dept := range DefaultDepartments {
		d := dept
		if _, err := repos.DepartmentRepository.Save(ctx, &d); err != nil {
			joined = errors.Join(joined, fmt.Errorf("create department %q: %w", d.Name, err))
			continue
		}
		lgr.Info().Str("department", d.Name).Msg("Default department created")
	}
	return joined
}

// seedAccount creates the account and its linked profile in one transaction
func seedAccount(ctx context.Context, repos *repositories.Repositories, hasher auth.PasswordHasher, demo DemoAccount) (bool, error) {
	exists, err := repos.AccountRepository.ExistsByUsername(ctx, demo.Username)
	if err != nil {
		return false, fmt.Errorf("check account: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := hasher.Hash(demo.Password)
	if err != nil {
		return false, err
	}

	err = repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		account, err := tx.AccountRepository.Save(ctx, &models.Account{
			Username:     demo.Username,
			PasswordHash: hash,
			Role:         demo.Role,
		})
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		switch {
		case demo.Student != nil:
			student := *demo.Student
			student.AccountID = &account.ID
			saved, err := tx.StudentRepository.Save(ctx, &student)
			if err != nil {
				return fmt.Errorf("create student profile: %w", err)
			}
			return tx.AccountRepository.LinkStudent(ctx, account.ID, saved.ID)
		case demo.Teacher != nil:
			teacher := *demo.Teacher
			teacher.AccountID = &account.ID
			saved, err := tx.TeacherRepository.Save(ctx, &teacher)
			if err != nil {
				return fmt.Errorf("create teacher profile: %w", err)
			}
			return tx.AccountRepository.LinkTeacher(ctx, account.ID, saved.ID)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
