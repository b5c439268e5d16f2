package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

func TestStudentForbiddenBeforeAnyRecordRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const missing = int64(9999)

	operations := map[string]func() error{
		"view teacher": func() error {
			_, err := f.svc.TeacherService.GetTeacherByID(ctx, studentUser, missing)
			return err
		},
		"list teachers": func() error {
			_, err := f.svc.TeacherService.GetAllTeachers(ctx, studentUser)
			return err
		},
		"update teacher": func() error {
			_, err := f.svc.TeacherService.UpdateTeacher(ctx, studentUser, missing, &models.Teacher{FirstName: "x", LastName: "y", EmployeeID: "z"})
			return err
		},
		"delete teacher": func() error {
			return f.svc.TeacherService.DeleteTeacher(ctx, studentUser, missing)
		},
		"create student": func() error {
			_, err := f.svc.StudentService.CreateStudent(ctx, studentUser, &models.Student{FirstName: "x", LastName: "y", StudentID: "z"})
			return err
		},
		"update student": func() error {
			_, err := f.svc.StudentService.UpdateStudent(ctx, studentUser, missing, &models.Student{FirstName: "x", LastName: "y", StudentID: "z"})
			return err
		},
		"delete student": func() error {
			return f.svc.StudentService.DeleteStudent(ctx, studentUser, missing)
		},
		"list courses": func() error {
			_, err := f.svc.CourseService.GetAllCourses(ctx, studentUser)
			return err
		},
		"create course": func() error {
			_, err := f.svc.CourseService.CreateCourse(ctx, studentUser, &models.Course{Code: "X", Name: "X", DepartmentID: missing, TeacherID: missing})
			return err
		},
		"update course": func() error {
			_, err := f.svc.CourseService.UpdateCourse(ctx, studentUser, missing, &models.Course{Code: "X", Name: "X", DepartmentID: missing, TeacherID: missing})
			return err
		},
		"delete course": func() error {
			return f.svc.CourseService.DeleteCourse(ctx, studentUser, missing)
		},
		"enroll": func() error {
			_, err := f.svc.CourseService.EnrollStudent(ctx, studentUser, missing, missing)
			return err
		},
		"unenroll": func() error {
			_, err := f.svc.CourseService.UnenrollStudent(ctx, studentUser, missing, missing)
			return err
		},
		"list departments": func() error {
			_, err := f.svc.DepartmentService.GetAllDepartments(ctx, studentUser)
			return err
		},
		"view department": func() error {
			_, err := f.svc.DepartmentService.GetDepartmentByID(ctx, studentUser, missing)
			return err
		},
		"create department": func() error {
			_, err := f.svc.DepartmentService.CreateDepartment(ctx, studentUser, &models.Department{Name: "x"})
			return err
		},
		"update department": func() error {
			_, err := f.svc.DepartmentService.UpdateDepartment(ctx, studentUser, missing, &models.Department{Name: "x"})
			return err
		},
		"delete department": func() error {
			return f.svc.DepartmentService.DeleteDepartment(ctx, studentUser, missing)
		},
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			before := f.reads.Load()
			err := op()
			require.ErrorIs(t, err, apperrors.ErrForbidden)
			require.NotErrorIs(t, err, apperrors.ErrResourceNotFound)
			assert.Equal(t, before, f.reads.Load(), "no directory read may happen before the gate")
		})
	}
}

func TestStudentAllowedReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept := f.department(t, "Computer Science")
	teacher := f.teacher(t, "T1", dept.ID)
	course := f.course(t, "CS101", dept.ID, teacher.ID)
	student := f.student(t, "S1")

	students, err := f.svc.StudentService.GetAllStudents(ctx, studentUser)
	require.NoError(t, err)
	assert.Len(t, students, 1)

	got, err := f.svc.StudentService.GetStudentByID(ctx, studentUser, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "S1", got.StudentID)

	gotCourse, err := f.svc.CourseService.GetCourseByID(ctx, studentUser, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS101", gotCourse.Code)

	_, err = f.svc.CourseService.GetCourseByID(ctx, studentUser, 404)
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestAdminWithoutProfileHasFullAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dept, err := f.svc.DepartmentService.CreateDepartment(ctx, adminUser, &models.Department{Name: "Physics"})
	require.NoError(t, err)

	_, err = f.svc.TeacherService.GetTeacherByID(ctx, adminUser, 404)
	require.ErrorIs(t, err, apperrors.ErrTeacherNotFound)

	departments, err := f.svc.DepartmentService.GetAllDepartments(ctx, adminUser)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, dept.ID, departments[0].ID)
}

func TestDeleteMissingStudentIsNoop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.student(t, "S1")

	require.NoError(t, f.svc.StudentService.DeleteStudent(ctx, teacherUser, 9999))

	students, err := f.svc.StudentService.GetAllStudents(ctx, teacherUser)
	require.NoError(t, err)
	assert.Len(t, students, 1)
}

func TestDeletePolicies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept := f.department(t, "Computer Science")
	teacher := f.teacher(t, "T1", dept.ID)
	course := f.course(t, "CS101", dept.ID, teacher.ID)

	err := f.svc.DepartmentService.DeleteDepartment(ctx, adminUser, dept.ID)
	require.ErrorIs(t, err, apperrors.ErrDepartmentHasRelations)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	err = f.svc.TeacherService.DeleteTeacher(ctx, adminUser, teacher.ID)
	require.ErrorIs(t, err, apperrors.ErrTeacherHasCourses)

	require.NoError(t, f.svc.CourseService.DeleteCourse(ctx, adminUser, course.ID))
	require.NoError(t, f.svc.TeacherService.DeleteTeacher(ctx, adminUser, teacher.ID))
	require.NoError(t, f.svc.DepartmentService.DeleteDepartment(ctx, adminUser, dept.ID))
}

func TestDeletingLinkedStudentClearsAccountLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, studentPayload(0))
	require.NoError(t, err)

	require.NoError(t, f.svc.StudentService.DeleteStudent(ctx, teacherUser, profile.Student.ID))

	claim, err := f.svc.AccountService.Me(ctx, studentUser)
	require.NoError(t, err)
	assert.False(t, claim.IsLinked())

	recreated, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, studentPayload(0))
	require.NoError(t, err)
	assert.NotEqual(t, profile.Student.ID, recreated.Student.ID)
}

func TestDeletingLinkedTeacherClearsAccountLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.svc.ProfileService.SaveOwnProfile(ctx, teacherUser, models.RoleTeacher, models.ProfilePayload{
		FirstName: "Alan", LastName: "Turing", Identifier: "T9",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.TeacherService.DeleteTeacher(ctx, adminUser, profile.Teacher.ID))

	account, err := f.svc.AccountService.FindByUsername(ctx, teacherUser)
	require.NoError(t, err)
	assert.Nil(t, account.TeacherID)
}

func TestStaffUpdateKeepsBackReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.svc.ProfileService.SaveOwnProfile(ctx, studentUser, models.RoleStudent, studentPayload(0))
	require.NoError(t, err)

	updated, err := f.svc.StudentService.UpdateStudent(ctx, teacherUser, profile.Student.ID, &models.Student{
		FirstName: "Edited", LastName: "ByStaff", StudentID: "S1",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AccountID)
	assert.Equal(t, profile.Account.ID, *updated.AccountID)

	_, err = f.svc.StudentService.UpdateStudent(ctx, teacherUser, 404, &models.Student{FirstName: "x", LastName: "y", StudentID: "z"})
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestCourseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept := f.department(t, "Computer Science")
	teacher := f.teacher(t, "T1", dept.ID)

	_, err := f.svc.CourseService.CreateCourse(ctx, adminUser, &models.Course{Code: "CS1", Name: "Intro", DepartmentID: dept.ID})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.CourseService.CreateCourse(ctx, adminUser, &models.Course{Code: "CS1", Name: "Intro", TeacherID: teacher.ID})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.CourseService.CreateCourse(ctx, adminUser, &models.Course{Code: "CS1", Name: "Intro", DepartmentID: dept.ID, TeacherID: 404})
	require.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	_, err = f.svc.CourseService.UpdateCourse(ctx, adminUser, 404, &models.Course{Code: "CS1", Name: "Intro", DepartmentID: dept.ID, TeacherID: teacher.ID})
	require.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestEnrolment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept := f.department(t, "Computer Science")
	teacher := f.teacher(t, "T1", dept.ID)
	course := f.course(t, "CS101", dept.ID, teacher.ID)
	student := f.student(t, "S1")

	enrolled, err := f.svc.CourseService.EnrollStudent(ctx, teacherUser, course.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{student.ID}, enrolled.EnrolledStudentIDs)

	_, err = f.svc.CourseService.EnrollStudent(ctx, teacherUser, course.ID, 404)
	require.ErrorIs(t, err, apperrors.ErrStudentNotFound)

	got, err := f.svc.StudentService.GetStudentByID(ctx, studentUser, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{course.ID}, got.EnrolledCourseIDs)

	// a staff edit of the student does not touch enrolments
	_, err = f.svc.StudentService.UpdateStudent(ctx, teacherUser, student.ID, &models.Student{FirstName: "G", LastName: "H", StudentID: "S1"})
	require.NoError(t, err)
	got, err = f.svc.StudentService.GetStudentByID(ctx, teacherUser, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{course.ID}, got.EnrolledCourseIDs)

	unenrolled, err := f.svc.CourseService.UnenrollStudent(ctx, teacherUser, course.ID, student.ID)
	require.NoError(t, err)
	assert.Empty(t, unenrolled.EnrolledStudentIDs)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept := f.department(t, "Computer Science")
	f.teacher(t, "T1", dept.ID)
	f.student(t, "S1")
	f.student(t, "S2")

	studentView, err := f.svc.DashboardService.GetDashboard(ctx, studentUser)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, studentView.Role)
	assert.Nil(t, studentView.Counts)

	staffView, err := f.svc.DashboardService.GetDashboard(ctx, teacherUser)
	require.NoError(t, err)
	require.NotNil(t, staffView.Counts)
	assert.EqualValues(t, 2, staffView.Counts.Students)
	assert.EqualValues(t, 1, staffView.Counts.Teachers)
	assert.EqualValues(t, 0, staffView.Counts.Courses)
	assert.EqualValues(t, 1, staffView.Counts.Departments)
}
