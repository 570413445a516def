package auth

import (
	"time"

	"github.com/google/uuid"
)

// Account is a login credential bound to exactly one employee. Role and
// profile live on the employee record; the account only carries the
// password hash and active flag.
type Account struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_accounts_employee"`
	Email      string    `gorm:"size:200;not null;uniqueIndex:uq_accounts_email"`
	Password   string    `gorm:"size:255;not null"`
	IsActive   bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
