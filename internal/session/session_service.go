package session

import (
	"context"
	"database/sql"

	sessionerrors "github.com/aFurik/PerformanceEvaluation/internal/session/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/clock"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=session_service.go -destination=mock/session_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, createdBy string, req CreateSessionRequest) (SessionResponse, error)
	GetAll(ctx context.Context) ([]SessionResponse, error)
	GetActive(ctx context.Context) ([]SessionResponse, error)
	GetByID(ctx context.Context, id string) (SessionResponse, error)
	Update(ctx context.Context, id string, req UpdateSessionRequest) (SessionResponse, error)
	Delete(ctx context.Context, id string) error
	IsActive(ctx context.Context, id string) (bool, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	clk    clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{db: db, repo: repo, clk: clk, logger: l}
}

func (s *service) Create(ctx context.Context, createdBy string, req CreateSessionRequest) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create session requested",
		zap.String("request_id", rid),
		zap.String("title", req.Title),
	)

	creatorID, err := uuid.Parse(createdBy)
	if err != nil {
		return SessionResponse{}, sessionerrors.ErrSessionNotFound
	}

	sess, err := NewEvaluationSession(req.Title, req.StartDate.UTC(), req.EndDate.UTC(), creatorID)
	if err != nil {
		return SessionResponse{}, err
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		s.logger.Error("create session persist failed", zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create session success",
		zap.String("request_id", rid),
		zap.String("session_id", sess.ID.String()),
	)

	return s.mapToResponse(*sess), nil
}

func (s *service) GetAll(ctx context.Context) ([]SessionResponse, error) {
	sessions, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("get all sessions failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return s.mapToListResponse(sessions), nil
}

func (s *service) GetActive(ctx context.Context) ([]SessionResponse, error) {
	sessions, err := s.repo.FindActiveAt(ctx, s.clk.Now())
	if err != nil {
		s.logger.Error("get active sessions failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return s.mapToListResponse(sessions), nil
}

func (s *service) GetByID(ctx context.Context, id string) (SessionResponse, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("get session by id failed", zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}

	return s.mapToResponse(*sess), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateSessionRequest) (SessionResponse, error) {
	s.logger.Debug("update session requested", zap.String("session_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update session begin tx failed", zap.Error(err))
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sess, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("update session fetch existing failed", zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}

	if err := sess.UpdateInfo(req.Title, req.StartDate.UTC(), req.EndDate.UTC()); err != nil {
		return SessionResponse{}, err
	}

	if err := qtx.Update(ctx, sess); err != nil {
		s.logger.Error("update session persist failed", zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update session commit failed", zap.Error(err))
		return SessionResponse{}, err
	}

	s.logger.Info("update session success", zap.String("session_id", id))

	return s.mapToResponse(*sess), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.logger.Debug("delete session requested", zap.String("session_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete session begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.Exists(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !exists {
		return sessionerrors.ErrSessionNotFound
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete session failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete session commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete session success", zap.String("session_id", id))
	return nil
}

func (s *service) IsActive(ctx context.Context, id string) (bool, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, mapRepositoryError(err)
	}
	return sess.IsActiveAt(s.clk.Now()), nil
}

func (s *service) mapToResponse(sess EvaluationSession) SessionResponse {
	return SessionResponse{
		ID:        sess.ID.String(),
		Title:     sess.Title,
		StartDate: sess.StartDate,
		EndDate:   sess.EndDate,
		IsActive:  sess.IsActiveAt(s.clk.Now()),
		CreatedBy: sess.CreatedBy.String(),
		CreatedAt: sess.CreatedAt,
	}
}

func (s *service) mapToListResponse(sessions []EvaluationSession) []SessionResponse {
	res := make([]SessionResponse, len(sessions))
	for i, sess := range sessions {
		res[i] = s.mapToResponse(sess)
	}
	return res
}
