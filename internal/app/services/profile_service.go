package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	authz "github.com/yigit/registrar/internal/app/auth"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// ProfileService links accounts to the Student or Teacher profile they own
type ProfileService struct {
	repos  *repositories.Repositories
	guard  *authz.Guard
	logger zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(repos *repositories.Repositories, guard *authz.Guard, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		repos:  repos,
		guard:  guard,
		logger: logger,
	}
}

func validateProfilePayload(kind models.ProfileKind, payload models.ProfilePayload) error {
	if strings.TrimSpace(payload.FirstName) == "" || strings.TrimSpace(payload.LastName) == "" {
		return apperrors.NewValidationError("first and last name are required")
	}
	if strings.TrimSpace(payload.Identifier) == "" {
		if kind == models.RoleStudent {
			return apperrors.NewValidationError("student number is required")
		}
		return apperrors.NewValidationError("employee number is required")
	}
	return nil
}

// SaveOwnProfile creates the caller's profile on first save and updates it afterwards.
// The create path inserts the profile and swaps the account link in one transaction,
// so concurrent first saves leave exactly one linked profile.
func (s *ProfileService) SaveOwnProfile(ctx context.Context, principal string, kind models.ProfileKind, payload models.ProfilePayload) (*models.OwnProfile, error) {
	claim, err := s.guard.Check(ctx, principal, authz.OpEditOwnProfile)
	if err != nil {
		return nil, err
	}
	if kind != claim.Role {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("a %s account cannot own a %s profile", claim.Role, kind))
	}
	if claim.IsLinked() && payload.ID != *claim.LinkedProfileID {
		s.logger.Warn().
			Str("username", claim.Username).
			Int64("linkedID", *claim.LinkedProfileID).
			Int64("payloadID", payload.ID).
			Msg("Rejected profile save for a record the caller does not own")
		return nil, apperrors.ErrNotAuthorizedForResource
	}

	if err := validateProfilePayload(kind, payload); err != nil {
		return nil, err
	}

	var result *models.OwnProfile
	err = s.repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		if payload.DepartmentID != nil {
			dept, err := tx.DepartmentRepository.FindByID(ctx, *payload.DepartmentID)
			if err != nil {
				return err
			}
			if dept == nil {
				return apperrors.ErrDepartmentNotFound
			}
		}

		if claim.IsLinked() {
			result, err = s.updateLinked(ctx, tx, claim, kind, payload)
		} else {
			result, err = s.createLinked(ctx, tx, claim, kind, payload)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ProfileService) createLinked(ctx context.Context, tx *repositories.Repositories, claim models.RoleClaim, kind models.ProfileKind, payload models.ProfilePayload) (*models.OwnProfile, error) {
	// the id is always generated on the create path
	payload.ID = 0
	profile := &models.OwnProfile{}

	switch kind {
	case models.RoleStudent:
		student, err := tx.StudentRepository.Save(ctx, payload.ToStudent(claim.AccountID))
		if err != nil {
			return nil, err
		}
		if err := tx.AccountRepository.LinkStudent(ctx, claim.AccountID, student.ID); err != nil {
			return nil, err
		}
		profile.Student = student
	case models.RoleTeacher:
		teacher, err := tx.TeacherRepository.Save(ctx, payload.ToTeacher(claim.AccountID))
		if err != nil {
			return nil, err
		}
		if err := tx.AccountRepository.LinkTeacher(ctx, claim.AccountID, teacher.ID); err != nil {
			return nil, err
		}
		profile.Teacher = teacher
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown profile kind %q", kind))
	}

	account, err := tx.AccountRepository.FindByID(ctx, claim.AccountID)
	if err != nil {
		return nil, err
	}
	profile.Account = account

	s.logger.Info().
		Str("username", claim.Username).
		Str("kind", string(kind)).
		Int64("profileID", profileID(profile)).
		Msg("Profile created and linked")

	return profile, nil
}

func (s *ProfileService) updateLinked(ctx context.Context, tx *repositories.Repositories, claim models.RoleClaim, kind models.ProfileKind, payload models.ProfilePayload) (*models.OwnProfile, error) {
	profile := &models.OwnProfile{}

	switch kind {
	case models.RoleStudent:
		student, err := tx.StudentRepository.Save(ctx, payload.ToStudent(claim.AccountID))
		if err != nil {
			return nil, err
		}
		profile.Student = student
	case models.RoleTeacher:
		teacher, err := tx.TeacherRepository.Save(ctx, payload.ToTeacher(claim.AccountID))
		if err != nil {
			return nil, err
		}
		profile.Teacher = teacher
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown profile kind %q", kind))
	}

	account, err := tx.AccountRepository.FindByID(ctx, claim.AccountID)
	if err != nil {
		return nil, err
	}
	profile.Account = account

	s.logger.Debug().
		Str("username", claim.Username).
		Int64("profileID", payload.ID).
		Msg("Profile updated")

	return profile, nil
}

// ViewOwnProfile returns the caller's account and its linked profile, if any
func (s *ProfileService) ViewOwnProfile(ctx context.Context, principal string) (*models.OwnProfile, error) {
	claim, err := s.guard.Check(ctx, principal, authz.OpViewOwnProfile)
	if err != nil {
		return nil, err
	}

	account, err := s.repos.AccountRepository.FindByID(ctx, claim.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.ErrPrincipalNotFound
	}

	profile := &models.OwnProfile{Account: account}
	if account.StudentID != nil {
		if profile.Student, err = s.repos.StudentRepository.FindByID(ctx, *account.StudentID); err != nil {
			return nil, err
		}
	}
	if account.TeacherID != nil {
		if profile.Teacher, err = s.repos.TeacherRepository.FindByID(ctx, *account.TeacherID); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

func profileID(p *models.OwnProfile) int64 {
	switch {
	case p.Student != nil:
		return p.Student.ID
	case p.Teacher != nil:
		return p.Teacher.ID
	}
	return 0
}
