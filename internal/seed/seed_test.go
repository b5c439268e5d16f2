package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories/memory"
	"github.com/yigit/registrar/internal/pkg/auth"
)

func TestCreateDefaultDataSeedsDirectoryAndAccounts(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	require.NoError(t, CreateDefaultData(ctx, repos, hasher, zerolog.Nop()))

	departments, err := repos.DepartmentRepository.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 2)
	assert.Equal(t, "Computer Science", departments[0].Name)
	assert.Equal(t, "Mathematics", departments[1].Name)

	student, err := repos.AccountRepository.FindByUsername(ctx, "student@test.com")
	require.NoError(t, err)
	require.NotNil(t, student)
	assert.Equal(t, models.RoleStudent, student.Role)
	require.NotNil(t, student.StudentID)
	profile, err := repos.StudentRepository.FindByID(ctx, *student.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "S1001", profile.StudentID)
	assert.Equal(t, student.ID, *profile.AccountID)
	assert.True(t, hasher.Compare(student.PasswordHash, "student123"))

	teacher, err := repos.AccountRepository.FindByUsername(ctx, "teacher@test.com")
	require.NoError(t, err)
	require.NotNil(t, teacher.TeacherID)
	assert.Nil(t, teacher.StudentID)

	admin, err := repos.AccountRepository.FindByUsername(ctx, "admin@test.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, admin.Role)
	assert.Nil(t, admin.StudentID)
	assert.Nil(t, admin.TeacherID)
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	require.NoError(t, CreateDefaultData(ctx, repos, hasher, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, repos, hasher, zerolog.Nop()))

	accounts, err := repos.AccountRepository.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, accounts)

	students, err := repos.StudentRepository.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, students)

	departments, err := repos.DepartmentRepository.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, departments)
}

func TestCreateDefaultDataSkipsDepartmentsWhenPresent(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	_, err := repos.DepartmentRepository.Save(ctx, &models.Department{Name: "Physics"})
	require.NoError(t, err)

	require.NoError(t, CreateDefaultData(ctx, repos, auth.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop()))

	departments, err := repos.DepartmentRepository.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "Physics", departments[0].Name)
}

func TestCreateDefaultDataKeepsExistingAccount(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("custom")
	require.NoError(t, err)
	_, err = repos.AccountRepository.Save(ctx, &models.Account{
		Username:     "student@test.com",
		PasswordHash: hash,
		Role:         models.RoleStudent,
	})
	require.NoError(t, err)

	require.NoError(t, CreateDefaultData(ctx, repos, hasher, zerolog.Nop()))

	account, err := repos.AccountRepository.FindByUsername(ctx, "student@test.com")
	require.NoError(t, err)
	assert.True(t, hasher.Compare(account.PasswordHash, "custom"))
	assert.Nil(t, account.StudentID)

	students, err := repos.StudentRepository.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, students)
}

func TestCreateDefaultDataReportsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CreateDefaultData(ctx, memory.NewRepositories(memory.NewStore()), auth.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
