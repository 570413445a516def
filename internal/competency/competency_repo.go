package competency

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=competency_repo.go -destination=mock/competency_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, comp *Competency) error
	FindAll(ctx context.Context) ([]Competency, error)
	FindByID(ctx context.Context, id string) (*Competency, error)
	Update(ctx context.Context, comp *Competency) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	InUse(ctx context.Context, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, comp *Competency) error {
	return r.db.WithContext(ctx).Create(comp).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Competency, error) {
	var comps []Competency
	err := r.db.WithContext(ctx).
		Order("name asc").
		Find(&comps).Error
	return comps, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Competency, error) {
	var comp Competency
	err := r.db.WithContext(ctx).First(&comp, "id = ?", id).Error
	return &comp, err
}

func (r *repository) Update(ctx context.Context, comp *Competency) error {
	return r.db.WithContext(ctx).Save(comp).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Competency{}, "id = ?", id).Error
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Competency{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// InUse reports whether any evaluation result references the competency.
// Deletes are restricted while references exist.
func (r *repository) InUse(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("evaluation_results").
		Where("competency_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
