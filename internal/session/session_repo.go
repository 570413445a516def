package session

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, sess *EvaluationSession) error
	FindAll(ctx context.Context) ([]EvaluationSession, error)
	FindByID(ctx context.Context, id string) (*EvaluationSession, error)
	FindActiveAt(ctx context.Context, now time.Time) ([]EvaluationSession, error)
	Update(ctx context.Context, sess *EvaluationSession) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
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

func (r *repository) Create(ctx context.Context, sess *EvaluationSession) error {
	return r.db.WithContext(ctx).Create(sess).Error
}

func (r *repository) FindAll(ctx context.Context) ([]EvaluationSession, error) {
	var sessions []EvaluationSession
	err := r.db.WithContext(ctx).
		Order("start_date desc").
		Find(&sessions).Error
	return sessions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*EvaluationSession, error) {
	var sess EvaluationSession
	err := r.db.WithContext(ctx).First(&sess, "id = ?", id).Error
	return &sess, err
}

func (r *repository) FindActiveAt(ctx context.Context, now time.Time) ([]EvaluationSession, error) {
	var sessions []EvaluationSession
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("start_date asc").
		Find(&sessions).Error
	return sessions, err
}

func (r *repository) Update(ctx context.Context, sess *EvaluationSession) error {
	return r.db.WithContext(ctx).Save(sess).Error
}

// Delete removes the session row; results and anonymous mappings go with it
// through the ON DELETE CASCADE foreign keys.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&EvaluationSession{}, "id = ?", id).Error
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&EvaluationSession{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
