package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aFurik/PerformanceEvaluation/internal/auth"
	autherrors "github.com/aFurik/PerformanceEvaluation/internal/auth/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	employeeerrors "github.com/aFurik/PerformanceEvaluation/internal/employee/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAccountRepository struct {
	createFn     func(ctx context.Context, account *auth.Account) error
	getByEmailFn func(ctx context.Context, email string) (*auth.Account, error)
	getByIDFn    func(ctx context.Context, id string) (*auth.Account, error)
}

func (f *fakeAccountRepository) Create(ctx context.Context, account *auth.Account) error {
	if f.createFn != nil {
		return f.createFn(ctx, account)
	}
	return nil
}

func (f *fakeAccountRepository) GetByEmail(ctx context.Context, email string) (*auth.Account, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccountRepository) GetByID(ctx context.Context, id string) (*auth.Account, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEmployeeRepository struct {
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByRole(ctx context.Context, role string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeEmployeeRepository) Exists(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type authServiceDeps struct {
	repo         *fakeAccountRepository
	employeeRepo *fakeEmployeeRepository
	service      auth.Service
}

func setupAuthServiceTest(t *testing.T) *authServiceDeps {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	deps := &authServiceDeps{
		repo:         &fakeAccountRepository{},
		employeeRepo: &fakeEmployeeRepository{},
	}
	deps.service = auth.NewService(deps.repo, deps.employeeRepo)
	return deps
}

func hrEmployee(id uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:         id,
		FullName:   "Dana Reyes",
		Email:      "dana.reyes@example.com",
		Position:   "HR Lead",
		Department: "People",
		Role:       employee.RoleHR,
	}
}

func activeAccount(t *testing.T, employeeID uuid.UUID, password string) *auth.Account {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &auth.Account{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Email:      "dana.reyes@example.com",
		Password:   string(hashed),
		IsActive:   true,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return hrEmployee(employeeID), nil
		}

		var created *auth.Account
		deps.repo.createFn = func(ctx context.Context, account *auth.Account) error {
			created = account
			return nil
		}

		resp, err := deps.service.Register(ctx, auth.RegisterRequest{
			EmployeeID: employeeID.String(),
			Email:      "dana.reyes@example.com",
			Password:   "correct-horse",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.True(t, created.IsActive)
		// Stored as a bcrypt hash, never the raw password.
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct-horse")))
		assert.Equal(t, employee.RoleHR, resp.Role)
		assert.Equal(t, "Dana Reyes", resp.FullName)
	})

	t.Run("negative malformed employee id", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			EmployeeID: "not-a-uuid",
			Email:      "x@example.com",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("negative employee missing", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			EmployeeID: uuid.NewString(),
			Email:      "x@example.com",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative email already registered", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return hrEmployee(employeeID), nil
		}
		deps.repo.createFn = func(ctx context.Context, account *auth.Account) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_accounts_email"}
		}

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			EmployeeID: employeeID.String(),
			Email:      "dana.reyes@example.com",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("negative employee already registered", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return hrEmployee(employeeID), nil
		}
		deps.repo.createFn = func(ctx context.Context, account *auth.Account) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_accounts_employee"}
		}

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			EmployeeID: employeeID.String(),
			Email:      "second@example.com",
			Password:   "password123",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmployeeAlreadyRegistered)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		account := activeAccount(t, employeeID, "correct-horse")
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.Account, error) {
			return account, nil
		}
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return hrEmployee(employeeID), nil
		}

		access, refresh, resp, err := deps.service.Login(ctx, account.Email, "correct-horse")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.NotEqual(t, access, refresh)
		assert.Equal(t, employee.RoleHR, resp.Role)
	})

	t.Run("negative wrong password", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		account := activeAccount(t, employeeID, "correct-horse")
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.Account, error) {
			return account, nil
		}

		_, _, _, err := deps.service.Login(ctx, account.Email, "wrong-horse")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, _, _, err := deps.service.Login(ctx, "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative deactivated account", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		account := activeAccount(t, uuid.New(), "correct-horse")
		account.IsActive = false
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.Account, error) {
			return account, nil
		}

		_, _, _, err := deps.service.Login(ctx, account.Email, "correct-horse")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("success rotates both tokens", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		account := activeAccount(t, employeeID, "correct-horse")
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.Account, error) {
			return account, nil
		}
		deps.repo.getByIDFn = func(ctx context.Context, id string) (*auth.Account, error) {
			assert.Equal(t, account.ID.String(), id)
			return account, nil
		}
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return hrEmployee(employeeID), nil
		}

		_, refresh, _, err := deps.service.Login(ctx, account.Email, "correct-horse")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := deps.service.RefreshToken(ctx, refresh)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, account.ID.String(), resp.ID)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, _, _, err := deps.service.RefreshToken(ctx, "not.a.jwt")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("negative account gone", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		account := activeAccount(t, employeeID, "correct-horse")
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.Account, error) {
			return account, nil
		}
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return hrEmployee(employeeID), nil
		}

		_, refresh, _, err := deps.service.Login(ctx, account.Email, "correct-horse")
		assert.NoError(t, err)

		// Account deleted between login and refresh.
		_, _, _, err = deps.service.RefreshToken(ctx, refresh)

		assert.ErrorIs(t, err, autherrors.ErrAccountNotFound)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		employeeID := uuid.New()
		account := activeAccount(t, employeeID, "correct-horse")
		deps.repo.getByIDFn = func(ctx context.Context, id string) (*auth.Account, error) {
			return account, nil
		}
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return hrEmployee(employeeID), nil
		}

		resp, err := deps.service.GetMe(ctx, account.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, account.Email, resp.Email)
		assert.Equal(t, "Dana Reyes", resp.FullName)
	})

	t.Run("negative malformed user id", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.GetMe(ctx, "nope")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("negative account missing", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.GetMe(ctx, uuid.NewString())

		assert.ErrorIs(t, err, autherrors.ErrAccountNotFound)
	})
}
