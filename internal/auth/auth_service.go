package auth

import (
	"context"
	"errors"
	"os"
	"time"

	autherrors "github.com/aFurik/PerformanceEvaluation/internal/auth/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	employeeerrors "github.com/aFurik/PerformanceEvaluation/internal/employee/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	repo         Repository
	employeeRepo employee.Repository
}

func NewService(repo Repository, employeeRepo employee.Repository) Service {
	return &service{repo: repo, employeeRepo: employeeRepo}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	eID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AuthResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.employeeRepo.FindByID(ctx, eID.String())
	if err != nil {
		return AuthResponse{}, employeeerrors.ErrEmployeeNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	account := &Account{
		ID:         uuid.New(),
		EmployeeID: eID,
		Email:      req.Email,
		Password:   string(hashed),
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return AuthResponse{}, mapAccountError(err)
	}

	return AuthResponse{
		ID:         account.ID.String(),
		EmployeeID: account.EmployeeID.String(),
		Email:      account.Email,
		FullName:   empl.FullName,
		Role:       empl.Role,
	}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !account.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// Role lives on the employee record so a role change takes effect on
	// the next login.
	empl, err := s.employeeRepo.FindByID(ctx, account.EmployeeID.String())
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	accessToken, err := s.generateToken(account.ID.String(), account.EmployeeID.String(), empl.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	refreshToken, err := s.generateToken(account.ID.String(), account.EmployeeID.String(), empl.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, AuthResponse{
		ID:         account.ID.String(),
		EmployeeID: account.EmployeeID.String(),
		Email:      account.Email,
		FullName:   empl.FullName,
		Role:       empl.Role,
	}, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrAccountNotFound
	}

	empl, err := s.employeeRepo.FindByID(ctx, account.EmployeeID.String())
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrAccountNotFound
	}

	newAccessToken, err := s.generateToken(account.ID.String(), account.EmployeeID.String(), empl.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	newRefreshToken, err := s.generateToken(account.ID.String(), account.EmployeeID.String(), empl.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, AuthResponse{
		ID:         account.ID.String(),
		EmployeeID: account.EmployeeID.String(),
		Email:      account.Email,
		FullName:   empl.FullName,
		Role:       empl.Role,
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrAccountNotFound
	}

	empl, err := s.employeeRepo.FindByID(ctx, account.EmployeeID.String())
	if err != nil {
		return nil, autherrors.ErrAccountNotFound
	}

	return &AuthResponse{
		ID:         account.ID.String(),
		EmployeeID: account.EmployeeID.String(),
		Email:      account.Email,
		FullName:   empl.FullName,
		Role:       empl.Role,
	}, nil
}

func (s *service) generateToken(userID, employeeID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        role,
		"exp":         time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapAccountError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return autherrors.ErrAccountNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_accounts_email":
				return autherrors.ErrEmailAlreadyRegistered
			case "uq_accounts_employee":
				return autherrors.ErrEmployeeAlreadyRegistered
			}
		}
	}

	return err
}
