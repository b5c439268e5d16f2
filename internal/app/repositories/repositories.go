package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/db"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// IDepartmentRepository defines the directory operations for departments
type IDepartmentRepository interface {
	FindAll(ctx context.Context) ([]*models.Department, error)
	FindByID(ctx context.Context, id int64) (*models.Department, error)
	Save(ctx context.Context, department *models.Department) (*models.Department, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	// HasReferences reports whether any teacher, student or course points at the department
	HasReferences(ctx context.Context, id int64) (bool, error)
}

// ITeacherRepository defines the directory operations for teachers
type ITeacherRepository interface {
	FindAll(ctx context.Context) ([]*models.Teacher, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	Save(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	HasCourses(ctx context.Context, id int64) (bool, error)
}

// IStudentRepository defines the directory operations for students and their enrolments
type IStudentRepository interface {
	FindAll(ctx context.Context) ([]*models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Save(ctx context.Context, student *models.Student) (*models.Student, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)

	Enroll(ctx context.Context, studentID, courseID int64) error
	Unenroll(ctx context.Context, studentID, courseID int64) error
	FindIDsByCourse(ctx context.Context, courseID int64) ([]int64, error)
}

// ICourseRepository defines the directory operations for courses
type ICourseRepository interface {
	FindAll(ctx context.Context) ([]*models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Save(ctx context.Context, course *models.Course) (*models.Course, error)
	DeleteByID(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// IAccountRepository defines the account operations used by the registry, resolver and linker
type IAccountRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, account *models.Account) (*models.Account, error)
	Count(ctx context.Context) (int64, error)

	// LinkStudent and LinkTeacher set the link only while the account has none.
	// They return apperrors.ErrLinkConflict when the account is already linked.
	LinkStudent(ctx context.Context, accountID, studentID int64) error
	LinkTeacher(ctx context.Context, accountID, teacherID int64) error

	ClearStudentLink(ctx context.Context, studentID int64) error
	ClearTeacherLink(ctx context.Context, teacherID int64) error
}

// Transactor runs fn against repositories bound to a single transaction
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error
}

// Repositories holds all the repository instances
type Repositories struct {
	DepartmentRepository IDepartmentRepository
	TeacherRepository    ITeacherRepository
	StudentRepository    IStudentRepository
	CourseRepository     ICourseRepository
	AccountRepository    IAccountRepository

	// Transactor is nil for repositories that are already bound to a transaction
	Transactor Transactor
}

// WithinTransaction runs fn in a transaction. Nested calls reuse the enclosing one.
func (r *Repositories) WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error {
	if r.Transactor == nil {
		return fn(r)
	}
	return r.Transactor.WithinTransaction(ctx, fn)
}

// NewRepositories initializes all PostgreSQL repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	repos := newPostgresRepositories(database.Pool)
	repos.Transactor = &pgTransactor{database: database}
	return repos
}

func newPostgresRepositories(conn DBTX) *Repositories {
	return &Repositories{
		DepartmentRepository: NewDepartmentRepository(conn),
		TeacherRepository:    NewTeacherRepository(conn),
		StudentRepository:    NewStudentRepository(conn),
		CourseRepository:     NewCourseRepository(conn),
		AccountRepository:    NewAccountRepository(conn),
	}
}

type pgTransactor struct {
	database *db.PostgresDB
}

func (t *pgTransactor) WithinTransaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return t.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(newPostgresRepositories(tx))
	})
}
