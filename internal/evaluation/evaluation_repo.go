package evaluation

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=evaluation_repo.go -destination=mock/evaluation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, result *EvaluationResult) error
	FindByID(ctx context.Context, id string) (*EvaluationResult, error)
	FindBySession(ctx context.Context, sessionID string) ([]EvaluationResult, error)
	FindByEvaluator(ctx context.Context, sessionID, evaluatorID string) ([]EvaluationResult, error)
	FindByEvaluated(ctx context.Context, sessionID, evaluatedID string) ([]EvaluationResult, error)
	FindByKey(ctx context.Context, sessionID, evaluatorID, evaluatedID, competencyID string) (*EvaluationResult, error)
	DistinctEvaluatedIDs(ctx context.Context, sessionID, evaluatorID string) ([]string, error)
	Update(ctx context.Context, result *EvaluationResult) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, result *EvaluationResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*EvaluationResult, error) {
	var result EvaluationResult
	err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error
	return &result, err
}

func (r *repository) FindBySession(ctx context.Context, sessionID string) ([]EvaluationResult, error) {
	var results []EvaluationResult
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&results).Error
	return results, err
}

func (r *repository) FindByEvaluator(ctx context.Context, sessionID, evaluatorID string) ([]EvaluationResult, error) {
	var results []EvaluationResult
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND evaluator_employee_id = ?", sessionID, evaluatorID).
		Order("created_at asc").
		Find(&results).Error
	return results, err
}

func (r *repository) FindByEvaluated(ctx context.Context, sessionID, evaluatedID string) ([]EvaluationResult, error) {
	var results []EvaluationResult
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND evaluated_employee_id = ?", sessionID, evaluatedID).
		Order("created_at asc").
		Find(&results).Error
	return results, err
}

func (r *repository) FindByKey(ctx context.Context, sessionID, evaluatorID, evaluatedID, competencyID string) (*EvaluationResult, error) {
	var result EvaluationResult
	err := r.db.WithContext(ctx).
		First(&result,
			"session_id = ? AND evaluator_employee_id = ? AND evaluated_employee_id = ? AND competency_id = ?",
			sessionID, evaluatorID, evaluatedID, competencyID,
		).Error
	return &result, err
}

// DistinctEvaluatedIDs lists the peers the evaluator has already touched
// in the session, across any competency. Feeds the assignment view.
func (r *repository) DistinctEvaluatedIDs(ctx context.Context, sessionID, evaluatorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&EvaluationResult{}).
		Distinct("evaluated_employee_id").
		Where("session_id = ? AND evaluator_employee_id = ?", sessionID, evaluatorID).
		Pluck("evaluated_employee_id", &ids).Error
	return ids, err
}

func (r *repository) Update(ctx context.Context, result *EvaluationResult) error {
	return r.db.WithContext(ctx).Save(result).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&EvaluationResult{}, "id = ?", id).Error
}
