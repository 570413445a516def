package employee

import (
	"strings"
	"time"

	employeeerrors "github.com/aFurik/PerformanceEvaluation/internal/employee/errors"

	"github.com/google/uuid"
)

const (
	RoleHR       = "HR"
	RoleAdmin    = "Admin"
	RoleEmployee = "Employee"
)

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName   string    `gorm:"size:200;not null"`
	Email      string    `gorm:"size:200;uniqueIndex:uq_employees_email"`
	Position   string    `gorm:"size:100;not null"`
	Department string    `gorm:"size:100;not null;index"`
	Role       string    `gorm:"size:50;not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewEmployee validates and builds an employee. The ID is assigned here and
// never changes afterwards; profile fields stay mutable via UpdateProfile.
func NewEmployee(fullName, email, position, department, role string) (*Employee, error) {
	e := &Employee{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	if err := e.apply(fullName, email, position, department, role); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateProfile replaces the mutable profile fields, leaving identity intact.
func (e *Employee) UpdateProfile(fullName, email, position, department, role string) error {
	return e.apply(fullName, email, position, department, role)
}

func (e *Employee) apply(fullName, email, position, department, role string) error {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" ||
		strings.TrimSpace(position) == "" || strings.TrimSpace(department) == "" {
		return employeeerrors.ErrMissingRequiredFields
	}
	if !validRole(role) {
		return employeeerrors.ErrInvalidRole
	}

	e.FullName = fullName
	e.Email = email
	e.Position = position
	e.Department = department
	e.Role = role
	return nil
}

func validRole(role string) bool {
	switch role {
	case RoleHR, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}
