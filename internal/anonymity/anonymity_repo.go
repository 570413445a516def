package anonymity

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=anonymity_repo.go -destination=mock/anonymity_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, mapping *AnonymousMapping) error
	FindByCode(ctx context.Context, code string) (*AnonymousMapping, error)
	FindBySessionAndEvaluator(ctx context.Context, sessionID, evaluatorID string) (*AnonymousMapping, error)
	FindBySession(ctx context.Context, sessionID string) ([]AnonymousMapping, error)
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

func (r *repository) Create(ctx context.Context, mapping *AnonymousMapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

func (r *repository) FindByCode(ctx context.Context, code string) (*AnonymousMapping, error) {
	var mapping AnonymousMapping
	err := r.db.WithContext(ctx).First(&mapping, "code = ?", code).Error
	return &mapping, err
}

func (r *repository) FindBySessionAndEvaluator(ctx context.Context, sessionID, evaluatorID string) (*AnonymousMapping, error) {
	var mapping AnonymousMapping
	err := r.db.WithContext(ctx).
		First(&mapping, "session_id = ? AND evaluator_employee_id = ?", sessionID, evaluatorID).Error
	return &mapping, err
}

func (r *repository) FindBySession(ctx context.Context, sessionID string) ([]AnonymousMapping, error) {
	var mappings []AnonymousMapping
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&mappings).Error
	return mappings, err
}
