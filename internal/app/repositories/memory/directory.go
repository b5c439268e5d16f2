package memory

import (
	"context"
	"slices"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// DepartmentRepository stores departments in memory
type DepartmentRepository struct {
	sess *session
}

// FindAll retrieves all departments ordered by id
func (r *DepartmentRepository) FindAll(ctx context.Context) ([]*models.Department, error) {
	var out []*models.Department
	err := r.sess.run(ctx, func(data *state) error {
		out = make([]*models.Department, 0, len(data.departments))
		for _, id := range sortedKeys(data.departments) {
			d := data.departments[id]
			out = append(out, &d)
		}
		return nil
	})
	return out, err
}

// FindByID retrieves a department by ID. It returns nil when absent.
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*models.Department, error) {
	var out *models.Department
	err := r.sess.run(ctx, func(data *state) error {
		if d, ok := data.departments[id]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

// Save inserts a department without an ID, otherwise updates it in place
func (r *DepartmentRepository) Save(ctx context.Context, department *models.Department) (*models.Department, error) {
	err := r.sess.run(ctx, func(data *state) error {
		if department.ID == 0 {
			data.lastDepartmentID++
			department.ID = data.lastDepartmentID
		} else if _, ok := data.departments[department.ID]; !ok {
			return apperrors.ErrDepartmentNotFound
		}
		data.departments[department.ID] = *department
		return nil
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

// DeleteByID deletes a department. Deleting a missing department is a no-op.
func (r *DepartmentRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.sess.run(ctx, func(data *state) error {
		if _, ok := data.departments[id]; !ok {
			return nil
		}
		if departmentReferenced(data, id) {
			return apperrors.ErrDepartmentHasRelations
		}
		delete(data.departments, id)
		return nil
	})
}

// Count returns the number of departments
func (r *DepartmentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.sess.run(ctx, func(data *state) error {
		n = int64(len(data.departments))
		return nil
	})
	return n, err
}

// HasReferences reports whether any teacher, student or course points at the department
func (r *DepartmentRepository) HasReferences(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.sess.run(ctx, func(data *state) error {
		found = departmentReferenced(data, id)
		return nil
	})
	return found, err
}

func departmentReferenced(data *state, id int64) bool {
	for _, t := range data.teachers {
		if t.DepartmentID != nil && *t.DepartmentID == id {
			return true
		}
	}
	for _, s := range data.students {
		if s.DepartmentID != nil && *s.DepartmentID == id {
			return true
		}
	}
	for _, c := range data.courses {
		if c.DepartmentID == id {
			return true
		}
	}
	return false
}

// TeacherRepository stores teachers in memory
type TeacherRepository struct {
	sess *session
}

// FindAll retrieves all teachers ordered by id
func (r *TeacherRepository) FindAll(ctx context.Context) ([]*models.Teacher, error) {
	var out []*models.Teacher
	err := r.sess.run(ctx, func(data *state) error {
		out = make([]*models.Teacher, 0, len(data.teachers))
		for _, id := range sortedKeys(data.teachers) {
			t := data.teachers[id]
			out = append(out, &t)
		}
		return nil
	})
	return out, err
}

// FindByID retrieves a teacher by ID. It returns nil when absent.
func (r *TeacherRepository) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	var out *models.Teacher
	err := r.sess.run(ctx, func(data *state) error {
		if t, ok := data.teachers[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

// Save inserts a teacher without an ID, otherwise updates it in place
func (r *TeacherRepository) Save(ctx context.Context, teacher *models.Teacher) (*models.Teacher, error) {
	err := r.sess.run(ctx, func(data *state) error {
		if teacher.ID != 0 {
			if _, ok := data.teachers[teacher.ID]; !ok {
				return apperrors.ErrTeacherNotFound
			}
		}
		if teacher.DepartmentID != nil {
			if _, ok := data.departments[*teacher.DepartmentID]; !ok {
				return apperrors.ErrDepartmentNotFound
			}
		}
		if teacher.AccountID != nil {
			for id, other := range data.teachers {
				if id != teacher.ID && other.AccountID != nil && *other.AccountID == *teacher.AccountID {
					return apperrors.ErrLinkConflict
				}
			}
		}

		if teacher.ID == 0 {
			data.lastTeacherID++
			teacher.ID = data.lastTeacherID
		}
		stored := *teacher
		stored.DepartmentID = cloneID(teacher.DepartmentID)
		stored.AccountID = cloneID(teacher.AccountID)
		data.teachers[teacher.ID] = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

// DeleteByID deletes a teacher and clears account links to it. Deleting a missing teacher is a no-op.
func (r *TeacherRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.sess.run(ctx, func(data *state) error {
		if _, ok := data.teachers[id]; !ok {
			return nil
		}
		for _, c := range data.courses {
			if c.TeacherID == id {
				return apperrors.ErrTeacherHasCourses
			}
		}
		delete(data.teachers, id)
		for accountID, a := range data.accounts {
			if a.TeacherID != nil && *a.TeacherID == id {
				a.TeacherID = nil
				data.accounts[accountID] = a
			}
		}
		return nil
	})
}

// Count returns the number of teachers
func (r *TeacherRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.sess.run(ctx, func(data *state) error {
		n = int64(len(data.teachers))
		return nil
	})
	return n, err
}

// HasCourses checks whether any course is taught by the teacher
func (r *TeacherRepository) HasCourses(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.sess.run(ctx, func(data *state) error {
		for _, c := range data.courses {
			if c.TeacherID == id {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

// StudentRepository stores students and enrolments in memory
type StudentRepository struct {
	sess *session
}

func (r *StudentRepository) hydrate(data *state, s models.Student) *models.Student {
	s.EnrolledCourseIDs = []int64{}
	for e := range data.enrolments {
		if e.studentID == s.ID {
			s.EnrolledCourseIDs = append(s.EnrolledCourseIDs, e.courseID)
		}
	}
	slices.Sort(s.EnrolledCourseIDs)
	return &s
}

// FindAll retrieves all students ordered by id
func (r *StudentRepository) FindAll(ctx context.Context) ([]*models.Student, error) {
	var out []*models.Student
	err := r.sess.run(ctx, func(data *state) error {
		out = make([]*models.Student, 0, len(data.students))
		for _, id := range sortedKeys(data.students) {
			out = append(out, r.hydrate(data, data.students[id]))
		}
		return nil
	})
	return out, err
}

// FindByID retrieves a student with its enrolments. It returns nil when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	var out *models.Student
	err := r.sess.run(ctx, func(data *state) error {
		if s, ok := data.students[id]; ok {
			out = r.hydrate(data, s)
		}
		return nil
	})
	return out, err
}

// Save inserts a student without an ID, otherwise updates it in place. Enrolments are not written.
func (r *StudentRepository) Save(ctx context.Context, student *models.Student) (*models.Student, error) {
	err := r.sess.run(ctx, func(data *state) error {
		if student.ID != 0 {
			if _, ok := data.students[student.ID]; !ok {
				return apperrors.ErrStudentNotFound
			}
		}
		if student.DepartmentID != nil {
			if _, ok := data.departments[*student.DepartmentID]; !ok {
				return apperrors.ErrDepartmentNotFound
			}
		}
		if student.AccountID != nil {
			for id, other := range data.students {
				if id != student.ID && other.AccountID != nil && *other.AccountID == *student.AccountID {
					return apperrors.ErrLinkConflict
				}
			}
		}

		if student.ID == 0 {
			data.lastStudentID++
			student.ID = data.lastStudentID
		}
		stored := *student
		stored.DepartmentID = cloneID(student.DepartmentID)
		stored.AccountID = cloneID(student.AccountID)
		stored.EnrolledCourseIDs = nil
		data.students[student.ID] = stored
		student.EnrolledCourseIDs = r.hydrate(data, stored).EnrolledCourseIDs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteByID deletes a student, its enrolments and account links to it
func (r *StudentRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.sess.run(ctx, func(data *state) error {
		if _, ok := data.students[id]; !ok {
			return nil
		}
		delete(data.students, id)
		for e := range data.enrolments {
			if e.studentID == id {
				delete(data.enrolments, e)
			}
		}
		for accountID, a := range data.accounts {
			if a.StudentID != nil && *a.StudentID == id {
				a.StudentID = nil
				data.accounts[accountID] = a
			}
		}
		return nil
	})
}

// Count returns the number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.sess.run(ctx, func(data *state) error {
		n = int64(len(data.students))
		return nil
	})
	return n, err
}

// Enroll adds the student to the course; enrolling twice is a no-op
func (r *StudentRepository) Enroll(ctx context.Context, studentID, courseID int64) error {
	return r.sess.run(ctx, func(data *state) error {
		if _, ok := data.students[studentID]; !ok {
			return apperrors.ErrResourceNotFound
		}
		if _, ok := data.courses[courseID]; !ok {
			return apperrors.ErrResourceNotFound
		}
		data.enrolments[enrolment{studentID: studentID, courseID: courseID}] = struct{}{}
		return nil
	})
}

// Unenroll removes the student from the course
func (r *StudentRepository) Unenroll(ctx context.Context, studentID, courseID int64) error {
	return r.sess.run(ctx, func(data *state) error {
		delete(data.enrolments, enrolment{studentID: studentID, courseID: courseID})
		return nil
	})
}

// FindIDsByCourse lists the students enrolled in a course
func (r *StudentRepository) FindIDsByCourse(ctx context.Context, courseID int64) ([]int64, error) {
	var ids []int64
	err := r.sess.run(ctx, func(data *state) error {
		ids = enrolledStudents(data, courseID)
		return nil
	})
	return ids, err
}

func enrolledStudents(data *state, courseID int64) []int64 {
	ids := []int64{}
	for e := range data.enrolments {
		if e.courseID == courseID {
			ids = append(ids, e.studentID)
		}
	}
	slices.Sort(ids)
	return ids
}

// CourseRepository stores courses in memory
type CourseRepository struct {
	sess *session
}

// FindAll retrieves all courses ordered by id
func (r *CourseRepository) FindAll(ctx context.Context) ([]*models.Course, error) {
	var out []*models.Course
	err := r.sess.run(ctx, func(data *state) error {
		out = make([]*models.Course, 0, len(data.courses))
		for _, id := range sortedKeys(data.courses) {
			c := data.courses[id]
			c.EnrolledStudentIDs = enrolledStudents(data, id)
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// FindByID retrieves a course with its enrolled students. It returns nil when absent.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	var out *models.Course
	err := r.sess.run(ctx, func(data *state) error {
		if c, ok := data.courses[id]; ok {
			c.EnrolledStudentIDs = enrolledStudents(data, id)
			out = &c
		}
		return nil
	})
	return out, err
}

// Save inserts a course without an ID, otherwise updates it in place
func (r *CourseRepository) Save(ctx context.Context, course *models.Course) (*models.Course, error) {
	err := r.sess.run(ctx, func(data *state) error {
		if course.ID != 0 {
			if _, ok := data.courses[course.ID]; !ok {
				return apperrors.ErrCourseNotFound
			}
		}
		if _, ok := data.departments[course.DepartmentID]; !ok {
			return apperrors.NewResourceNotFoundError("course references a missing department or teacher")
		}
		if _, ok := data.teachers[course.TeacherID]; !ok {
			return apperrors.NewResourceNotFoundError("course references a missing department or teacher")
		}

		if course.ID == 0 {
			data.lastCourseID++
			course.ID = data.lastCourseID
		}
		stored := *course
		stored.EnrolledStudentIDs = nil
		data.courses[course.ID] = stored
		course.EnrolledStudentIDs = enrolledStudents(data, course.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteByID deletes a course and its enrolments. Deleting a missing course is a no-op.
func (r *CourseRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.sess.run(ctx, func(data *state) error {
		delete(data.courses, id)
		for e := range data.enrolments {
			if e.courseID == id {
				delete(data.enrolments, e)
			}
		}
		return nil
	})
}

// Count returns the number of courses
func (r *CourseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.sess.run(ctx, func(data *state) error {
		n = int64(len(data.courses))
		return nil
	})
	return n, err
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
