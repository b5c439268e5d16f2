// Package memory is an in-process implementation of the repositories with the same
// semantics as the PostgreSQL ones. It backs the "memory" database driver and the tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
)

type enrolment struct {
	studentID int64
	courseID  int64
}

type state struct {
	departments map[int64]models.Department
	teachers    map[int64]models.Teacher
	students    map[int64]models.Student
	courses     map[int64]models.Course
	accounts    map[int64]models.Account
	enrolments  map[enrolment]struct{}

	lastDepartmentID int64
	lastTeacherID    int64
	lastStudentID    int64
	lastCourseID     int64
	lastAccountID    int64
}

func (s *state) clone() state {
	c := *s
	c.departments = maps.Clone(s.departments)
	c.teachers = maps.Clone(s.teachers)
	c.students = maps.Clone(s.students)
	c.courses = maps.Clone(s.courses)
	c.accounts = maps.Clone(s.accounts)
	c.enrolments = maps.Clone(s.enrolments)
	return c
}

// Store holds every record behind one mutex. A transaction holds the mutex for its
// whole duration, so transactions are serializable.
type Store struct {
	mu   sync.Mutex
	data state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		data: state{
			departments: make(map[int64]models.Department),
			teachers:    make(map[int64]models.Teacher),
			students:    make(map[int64]models.Student),
			courses:     make(map[int64]models.Course),
			accounts:    make(map[int64]models.Account),
			enrolments:  make(map[enrolment]struct{}),
		},
	}
}

// NewRepositories returns repositories backed by the store
func NewRepositories(store *Store) *repositories.Repositories {
	repos := newRepositories(&session{store: store})
	repos.Transactor = &transactor{store: store}
	return repos
}

func newRepositories(sess *session) *repositories.Repositories {
	return &repositories.Repositories{
		DepartmentRepository: &DepartmentRepository{sess},
		TeacherRepository:    &TeacherRepository{sess},
		StudentRepository:    &StudentRepository{sess},
		CourseRepository:     &CourseRepository{sess},
		AccountRepository:    &AccountRepository{sess},
	}
}

// session scopes repository calls either to single statements or to a transaction
type session struct {
	store *Store
	inTx  bool
}

func (s *session) run(ctx context.Context, fn func(data *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
	}
	return fn(&s.store.data)
}

type transactor struct {
	store *Store
}

// WithinTransaction snapshots the store and restores it when fn fails or panics
func (t *transactor) WithinTransaction(ctx context.Context, fn func(tx *repositories.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snapshot := t.store.data.clone()
	defer func() {
		if r := recover(); r != nil {
			t.store.data = snapshot
			panic(r)
		}
	}()

	if err := fn(newRepositories(&session{store: t.store, inTx: true})); err != nil {
		t.store.data = snapshot
		return err
	}
	return nil
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
