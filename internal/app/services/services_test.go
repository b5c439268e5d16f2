package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/app/repositories/memory"
	"github.com/yigit/registrar/internal/pkg/auth"
)

// readCounter counts directory record reads so tests can assert that none happened
type readCounter struct {
	n atomic.Int64
}

func (c *readCounter) inc() { c.n.Add(1) }

func (c *readCounter) Load() int64 { return c.n.Load() }

type countingDepartments struct {
	repositories.IDepartmentRepository
	c *readCounter
}

func (r countingDepartments) FindAll(ctx context.Context) ([]*models.Department, error) {
	r.c.inc()
	return r.IDepartmentRepository.FindAll(ctx)
}

func (r countingDepartments) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	r.c.inc()
	return r.IDepartmentRepository.FindByID(ctx, id)
}

func (r countingDepartments) HasReferences(ctx context.Context, id int64) (bool, error) {
	r.c.inc()
	return r.IDepartmentRepository.HasReferences(ctx, id)
}

type countingTeachers struct {
	repositories.ITeacherRepository
	c *readCounter
}

func (r countingTeachers) FindAll(ctx context.Context) ([]*models.Teacher, error) {
	r.c.inc()
	return r.ITeacherRepository.FindAll(ctx)
}

func (r countingTeachers) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	r.c.inc()
	return r.ITeacherRepository.FindByID(ctx, id)
}

func (r countingTeachers) HasCourses(ctx context.Context, id int64) (bool, error) {
	r.c.inc()
	return r.ITeacherRepository.HasCourses(ctx, id)
}

type countingStudents struct {
	repositories.IStudentRepository
	c *readCounter
}

func (r countingStudents) FindAll(ctx context.Context) ([]*models.Student, error) {
	r.c.inc()
	return r.IStudentRepository.FindAll(ctx)
}

func (r countingStudents) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	r.c.inc()
	return r.IStudentRepository.FindByID(ctx, id)
}

type countingCourses struct {
	repositories.ICourseRepository
	c *readCounter
}

func (r countingCourses) FindAll(ctx context.Context) ([]*models.Course, error) {
	r.c.inc()
	return r.ICourseRepository.FindAll(ctx)
}

func (r countingCourses) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	r.c.inc()
	return r.ICourseRepository.FindByID(ctx, id)
}

type countingTransactor struct {
	inner repositories.Transactor
	c     *readCounter
}

func (t countingTransactor) WithinTransaction(ctx context.Context, fn func(tx *repositories.Repositories) error) error {
	return t.inner.WithinTransaction(ctx, func(tx *repositories.Repositories) error {
		return fn(withReadCounter(tx, t.c))
	})
}

func withReadCounter(repos *repositories.Repositories, c *readCounter) *repositories.Repositories {
	out := *repos
	out.DepartmentRepository = countingDepartments{repos.DepartmentRepository, c}
	out.TeacherRepository = countingTeachers{repos.TeacherRepository, c}
	out.StudentRepository = countingStudents{repos.StudentRepository, c}
	out.CourseRepository = countingCourses{repos.CourseRepository, c}
	if repos.Transactor != nil {
		out.Transactor = countingTransactor{inner: repos.Transactor, c: c}
	}
	return &out
}

type fixture struct {
	repos *repositories.Repositories
	svc   *Services
	jwt   *auth.JWTService
	reads *readCounter
}

const (
	studentUser = "s1@x.com"
	teacherUser = "t1@x.com"
	adminUser   = "admin@x.com"
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reads := &readCounter{}
	repos := withReadCounter(memory.NewRepositories(memory.NewStore()), reads)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "registrar.test",
	})
	svc := NewServices(repos, auth.NewBcryptHasher(bcrypt.MinCost), jwtService, zerolog.Nop())

	ctx := context.Background()
	_, err := svc.AccountService.Register(ctx, studentUser, "pw", models.RoleStudent)
	require.NoError(t, err)
	_, err = svc.AccountService.Register(ctx, teacherUser, "pw", models.RoleTeacher)
	require.NoError(t, err)
	_, err = svc.AccountService.Register(ctx, adminUser, "pw", models.RoleTeacher)
	require.NoError(t, err)

	return &fixture{repos: repos, svc: svc, jwt: jwtService, reads: reads}
}

func (f *fixture) department(t *testing.T, name string) *models.Department {
	t.Helper()
	dept, err := f.svc.DepartmentService.CreateDepartment(context.Background(), adminUser, &models.Department{Name: name})
	require.NoError(t, err)
	return dept
}

func (f *fixture) teacher(t *testing.T, employeeID string, departmentID int64) *models.Teacher {
	t.Helper()
	teacher, err := f.svc.TeacherService.CreateTeacher(context.Background(), adminUser, &models.Teacher{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		EmployeeID:   employeeID,
		DepartmentID: &departmentID,
	})
	require.NoError(t, err)
	return teacher
}

func (f *fixture) student(t *testing.T, number string) *models.Student {
	t.Helper()
	student, err := f.svc.StudentService.CreateStudent(context.Background(), adminUser, &models.Student{
		FirstName: "Grace",
		LastName:  "Hopper",
		StudentID: number,
	})
	require.NoError(t, err)
	return student
}

func (f *fixture) course(t *testing.T, code string, departmentID, teacherID int64) *models.Course {
	t.Helper()
	course, err := f.svc.CourseService.CreateCourse(context.Background(), adminUser, &models.Course{
		Code:         code,
		Name:         "Course " + code,
		DepartmentID: departmentID,
		TeacherID:    teacherID,
	})
	require.NoError(t, err)
	return course
}
