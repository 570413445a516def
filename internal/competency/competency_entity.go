package competency

import (
	"strings"
	"time"

	competencyerrors "github.com/aFurik/PerformanceEvaluation/internal/competency/errors"

	"github.com/google/uuid"
)

const DefaultWeight = 20

type Competency struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:200;not null"`
	Description string    `gorm:"size:1000"`
	Weight      int       `gorm:"not null;default:20"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCompetency validates and builds a competency. Weight defaults to
// DefaultWeight when zero.
func NewCompetency(name, description string, weight int) (*Competency, error) {
	c := &Competency{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	if err := c.apply(name, description, weight); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Competency) UpdateInfo(name, description string, weight int) error {
	return c.apply(name, description, weight)
}

func (c *Competency) apply(name, description string, weight int) error {
	if strings.TrimSpace(name) == "" {
		return competencyerrors.ErrMissingName
	}
	if weight == 0 {
		weight = DefaultWeight
	}
	if weight < 1 || weight > 100 {
		return competencyerrors.ErrInvalidWeight
	}

	c.Name = name
	c.Description = description
	c.Weight = weight
	return nil
}
