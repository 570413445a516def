package competency

import (
	"context"
	"database/sql"

	competencyerrors "github.com/aFurik/PerformanceEvaluation/internal/competency/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=competency_service.go -destination=mock/competency_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCompetencyRequest) (CompetencyResponse, error)
	GetAll(ctx context.Context) ([]CompetencyResponse, error)
	GetByID(ctx context.Context, id string) (CompetencyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompetencyRequest) (CompetencyResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("competency.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("competency.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateCompetencyRequest) (CompetencyResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create competency requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	comp, err := NewCompetency(req.Name, req.Description, req.Weight)
	if err != nil {
		return CompetencyResponse{}, err
	}

	if err := s.repo.Create(ctx, comp); err != nil {
		s.logger.Error("create competency persist failed", zap.Error(err))
		return CompetencyResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create competency success",
		zap.String("request_id", rid),
		zap.String("competency_id", comp.ID.String()),
	)

	return mapToResponse(*comp), nil
}

func (s *service) GetAll(ctx context.Context) ([]CompetencyResponse, error) {
	comps, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all competencies failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(comps), nil
}

func (s *service) GetByID(ctx context.Context, id string) (CompetencyResponse, error) {
	comp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get competency by id failed", zap.Error(err))
		return CompetencyResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*comp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompetencyRequest) (CompetencyResponse, error) {
	s.logger.Debug("update competency requested", zap.String("competency_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update competency begin tx failed", zap.Error(err))
		return CompetencyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	comp, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update competency fetch existing failed", zap.Error(err))
		return CompetencyResponse{}, mapRepositoryError(err)
	}

	if err := comp.UpdateInfo(req.Name, req.Description, req.Weight); err != nil {
		return CompetencyResponse{}, err
	}

	if err := qtx.Update(ctx, comp); err != nil {
		s.logger.Error("update competency persist failed", zap.Error(err))
		return CompetencyResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update competency commit failed", zap.Error(err))
		return CompetencyResponse{}, err
	}

	s.logger.Info("update competency success", zap.String("competency_id", id))

	return mapToResponse(*comp), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete competency requested", zap.String("competency_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete competency begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.Exists(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !exists {
		return competencyerrors.ErrCompetencyNotFound
	}

	// Referential restrict: results keep their competency rows.
	inUse, err := qtx.InUse(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if inUse {
		return competencyerrors.ErrCompetencyInUse
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete competency failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete competency commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete competency success", zap.String("competency_id", id))
	return nil
}

func mapToResponse(comp Competency) CompetencyResponse {
	return CompetencyResponse{
		ID:          comp.ID.String(),
		Name:        comp.Name,
		Description: comp.Description,
		Weight:      comp.Weight,
	}
}

func mapToListResponse(comps []Competency) []CompetencyResponse {
	res := make([]CompetencyResponse, len(comps))
	for i, c := range comps {
		res[i] = mapToResponse(c)
	}
	return res
}
