package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

func int64Ptr(v int64) *int64 { return &v }

func seedCourse(t *testing.T, repos *repositories.Repositories) (*models.Department, *models.Teacher, *models.Course) {
	t.Helper()
	ctx := context.Background()

	dept, err := repos.DepartmentRepository.Save(ctx, &models.Department{Name: "Computer Science"})
	require.NoError(t, err)
	teacher, err := repos.TeacherRepository.Save(ctx, &models.Teacher{FirstName: "Ada", LastName: "Lovelace", EmployeeID: "T1", DepartmentID: int64Ptr(dept.ID)})
	require.NoError(t, err)
	course, err := repos.CourseRepository.Save(ctx, &models.Course{Code: "CS101", Name: "Intro", DepartmentID: dept.ID, TeacherID: teacher.ID})
	require.NoError(t, err)
	return dept, teacher, course
}

func TestFindByIDAbsentReturnsNil(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	dept, err := repos.DepartmentRepository.FindByID(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, dept)

	student, err := repos.StudentRepository.FindByID(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, student)

	account, err := repos.AccountRepository.FindByUsername(ctx, "nobody@test.com")
	require.NoError(t, err)
	require.Nil(t, account)
}

func TestSaveAssignsIDAndUpdatesInPlace(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	dept, err := repos.DepartmentRepository.Save(ctx, &models.Department{Name: "Mathematics"})
	require.NoError(t, err)
	require.NotZero(t, dept.ID)

	dept.Description = "Pure and applied"
	_, err = repos.DepartmentRepository.Save(ctx, dept)
	require.NoError(t, err)

	stored, err := repos.DepartmentRepository.FindByID(ctx, dept.ID)
	require.NoError(t, err)
	require.Equal(t, "Pure and applied", stored.Description)

	count, err := repos.DepartmentRepository.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	_, err = repos.DepartmentRepository.Save(ctx, &models.Department{ID: 99, Name: "Ghost"})
	require.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)
}

func TestDeleteMissingIsNoop(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	require.NoError(t, repos.DepartmentRepository.DeleteByID(ctx, 7))
	require.NoError(t, repos.TeacherRepository.DeleteByID(ctx, 7))
	require.NoError(t, repos.StudentRepository.DeleteByID(ctx, 7))
	require.NoError(t, repos.CourseRepository.DeleteByID(ctx, 7))
}

func TestDeleteRestrictions(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()
	dept, teacher, course := seedCourse(t, repos)

	require.ErrorIs(t, repos.DepartmentRepository.DeleteByID(ctx, dept.ID), apperrors.ErrDepartmentHasRelations)
	require.ErrorIs(t, repos.TeacherRepository.DeleteByID(ctx, teacher.ID), apperrors.ErrTeacherHasCourses)

	require.NoError(t, repos.CourseRepository.DeleteByID(ctx, course.ID))
	require.NoError(t, repos.TeacherRepository.DeleteByID(ctx, teacher.ID))
	require.NoError(t, repos.DepartmentRepository.DeleteByID(ctx, dept.ID))
}

func TestEnrolmentsFollowStudentAndCourse(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()
	_, _, course := seedCourse(t, repos)

	student, err := repos.StudentRepository.Save(ctx, &models.Student{FirstName: "Grace", StudentID: "S1"})
	require.NoError(t, err)

	require.NoError(t, repos.StudentRepository.Enroll(ctx, student.ID, course.ID))
	require.NoError(t, repos.StudentRepository.Enroll(ctx, student.ID, course.ID))
	require.ErrorIs(t, repos.StudentRepository.Enroll(ctx, student.ID, 404), apperrors.ErrResourceNotFound)

	loaded, err := repos.StudentRepository.FindByID(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{course.ID}, loaded.EnrolledCourseIDs)

	loadedCourse, err := repos.CourseRepository.FindByID(ctx, course.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{student.ID}, loadedCourse.EnrolledStudentIDs)

	require.NoError(t, repos.StudentRepository.DeleteByID(ctx, student.ID))
	ids, err := repos.StudentRepository.FindIDsByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAccountUsernameUnique(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	_, err := repos.AccountRepository.Save(ctx, &models.Account{Username: "a@test.com", Role: models.RoleStudent})
	require.NoError(t, err)
	_, err = repos.AccountRepository.Save(ctx, &models.Account{Username: "a@test.com", Role: models.RoleTeacher})
	require.ErrorIs(t, err, apperrors.ErrDuplicateUsername)

	exists, err := repos.AccountRepository.ExistsByUsername(ctx, "A@test.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestLinkIsCompareAndSwap(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	account, err := repos.AccountRepository.Save(ctx, &models.Account{Username: "s@test.com", Role: models.RoleStudent})
	require.NoError(t, err)

	require.NoError(t, repos.AccountRepository.LinkStudent(ctx, account.ID, 1))
	require.ErrorIs(t, repos.AccountRepository.LinkStudent(ctx, account.ID, 2), apperrors.ErrLinkConflict)

	stored, err := repos.AccountRepository.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, *stored.StudentID)

	require.NoError(t, repos.AccountRepository.ClearStudentLink(ctx, 1))
	stored, err = repos.AccountRepository.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.Nil(t, stored.StudentID)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()
	boom := errors.New("boom")

	err := repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		_, err := tx.DepartmentRepository.Save(ctx, &models.Department{Name: "Physics"})
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := repos.DepartmentRepository.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	err = repos.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		_, err := tx.DepartmentRepository.Save(ctx, &models.Department{Name: "Physics"})
		return err
	})
	require.NoError(t, err)

	count, err = repos.DepartmentRepository.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestCourseRequiresExistingReferences(t *testing.T) {
	repos := NewRepositories(NewStore())
	ctx := context.Background()

	_, err := repos.CourseRepository.Save(ctx, &models.Course{Code: "X", Name: "X", DepartmentID: 1, TeacherID: 1})
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
