package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

func studentPayload(id int64) models.ProfilePayload {
	return models.ProfilePayload{
		ID:         id,
		FirstName:  "A",
		LastName:   "B",
		Email:      studentUser,
		Identifier: "S1",
	}
}

func TestSaveOwnProfileCreatesThenUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, studentPayload(0))
	require.NoError(t, err)
	require.NotNil(t, created.Student)
	require.NotNil(t, created.Account.StudentID)
	assert.Equal(t, created.Student.ID, *created.Account.StudentID)
	assert.Equal(t, created.Account.ID, *created.Student.AccountID)

	payload := studentPayload(created.Student.ID)
	payload.FirstName = "Alice"
	updated, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, payload)
	require.NoError(t, err)
	assert.Equal(t, created.Student.ID, updated.Student.ID)
	assert.Equal(t, "Alice", updated.Student.FirstName)

	count, err := f.repos.StudentRepository.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSaveOwnProfileRejectsForgedID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.student(t, "S9")

	created, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, studentPayload(0))
	require.NoError(t, err)

	_, err = f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, studentPayload(other.ID))
	require.ErrorIs(t, err, apperrors.ErrNotAuthorizedForResource)
	require.NotErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, studentPayload(0))
	require.ErrorIs(t, err, apperrors.ErrNotAuthorizedForResource)

	blank := studentPayload(other.ID)
	blank.FirstName = ""
	_, err = f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, blank)
	require.ErrorIs(t, err, apperrors.ErrNotAuthorizedForResource)
	require.NotErrorIs(t, err, apperrors.ErrValidationFailed)

	stored, err := f.repos.StudentRepository.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", stored.FirstName)
	assert.Nil(t, stored.AccountID)

	reloaded, err := f.repos.StudentRepository.FindByID(ctx, created.Student.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", reloaded.FirstName)
}

func TestSaveOwnProfileKindMustMatchRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleTeacher, studentPayload(0))
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	account, err := f.svc.AccountService.FindByUsername(ctx, studentUser)
	require.NoError(t, err)
	assert.Nil(t, account.TeacherID)
	assert.Nil(t, account.StudentID)
}

func TestSaveOwnProfileUnknownPrincipal(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProfileService.SaveOwnProfile(context.Background(), "ghost@x.com", models.RoleStudent, studentPayload(0))
	require.ErrorIs(t, err, apperrors.ErrPrincipalNotFound)
}

func TestSaveOwnProfileValidatesPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload := studentPayload(0)
	payload.Identifier = ""
	_, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, payload)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	missing := int64(404)
	payload = studentPayload(0)
	payload.DepartmentID = &missing
	_, err = f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, payload)
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	count, err := f.repos.StudentRepository.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTeacherSavesOwnTeacherProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept := f.department(t, "Mathematics")

	profile, err := f.svc.ProfileService.SaveOwnProfile(ctx, teacherUser, models.RoleTeacher, models.ProfilePayload{
		FirstName:    "Alan",
		LastName:     "Turing",
		Identifier:   "T1",
		DepartmentID: &dept.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, profile.Teacher)
	assert.Equal(t, profile.Teacher.ID, *profile.Account.TeacherID)
	assert.Nil(t, profile.Account.StudentID)

	claim, err := f.svc.AccountService.Me(ctx, teacherUser)
	require.NoError(t, err)
	assert.Equal(t, profile.Teacher.ID, *claim.LinkedProfileID)
}

func TestRegisterResolveSaveReloadScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AccountService.Register(ctx, "s2@x.com", "pw", models.RoleStudent)
	require.NoError(t, err)

	claim, err := f.svc.AccountService.Me(ctx, "s2@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, claim.Role)
	assert.False(t, claim.IsLinked())

	_, err = f.svc.ProfileService.SaveOwnProfile(ctx, "s2@x.com", models.RoleStudent, models.ProfilePayload{
		FirstName:  "A",
		LastName:   "B",
		Email:      "s2@x.com",
		Identifier: "S1",
	})
	require.NoError(t, err)

	account, err := f.svc.AccountService.FindByUsername(ctx, "s2@x.com")
	require.NoError(t, err)
	require.NotNil(t, account.StudentID)

	student, err := f.svc.StudentService.GetStudentByID(ctx, "s2@x.com", *account.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "A", student.FirstName)
	assert.Equal(t, "B", student.LastName)
	assert.Equal(t, "s2@x.com", student.Email)
	assert.Equal(t, "S1", student.StudentID)

	own, err := f.svc.ProfileService.ViewOwnProfile(ctx, "s2@x.com")
	require.NoError(t, err)
	require.NotNil(t, own.Student)
	assert.Equal(t, student.ID, own.Student.ID)
	assert.Nil(t, own.Teacher)
}

func TestConcurrentFirstSavesLinkExactlyOneProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			payload := studentPayload(0)
			payload.FirstName = fmt.Sprintf("worker-%d", i)
			_, errs[i] = f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, payload)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t,
			errors.Is(err, apperrors.ErrLinkConflict) || errors.Is(err, apperrors.ErrNotAuthorizedForResource),
			"unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	students, err := f.repos.StudentRepository.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)

	account, err := f.svc.AccountService.FindByUsername(ctx, studentUser)
	require.NoError(t, err)
	require.NotNil(t, account.StudentID)
	assert.Equal(t, students[0].ID, *account.StudentID)
	assert.Equal(t, account.ID, *students[0].AccountID)
}

func TestViewOwnProfileForAdminWithoutProfile(t *testing.T) {
	f := newFixture(t)

	own, err := f.svc.ProfileService.ViewOwnProfile(context.Background(), adminUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, own.Account.Role)
	assert.Nil(t, own.Student)
	assert.Nil(t, own.Teacher)
}
