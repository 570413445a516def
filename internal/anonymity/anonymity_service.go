package anonymity

import (
	"context"
	"errors"

	anonymityerrors "github.com/aFurik/PerformanceEvaluation/internal/anonymity/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/session"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the anonymity boundary. ResolveEvaluator is the only path
// from a code back to an identity, and reporting code must never call it.
// Code values never appear in log fields; only mapping IDs do.
//
//go:generate mockgen -source=anonymity_service.go -destination=mock/anonymity_service_mock.go -package=mock
type Service interface {
	GetOrCreateCode(ctx context.Context, sessionID, evaluatorID string) (AnonymousCodeResponse, error)
	ResolveEvaluator(ctx context.Context, code string) (string, bool, error)
	ValidateCode(ctx context.Context, code, sessionID string) (bool, error)
	ListSessionCodes(ctx context.Context, sessionID string) ([]MappingResponse, error)
}

type service struct {
	repo        Repository
	sessionRepo session.Repository
	logger      *zap.Logger
}

func NewService(repo Repository, sessionRepo session.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("anonymity.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("anonymity.service")
	}
	return &service{repo: repo, sessionRepo: sessionRepo, logger: l}
}

// GetOrCreateCode is idempotent per (session, evaluator): a re-login must
// get the same code back, never a second identity channel. The check-then-
// create race is settled by the unique pair constraint; the loser re-reads
// the winner's row.
func (s *service) GetOrCreateCode(ctx context.Context, sessionID, evaluatorID string) (AnonymousCodeResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	sessionUUID, evaluatorUUID, err := parseIDs(sessionID, evaluatorID)
	if err != nil {
		return AnonymousCodeResponse{}, err
	}

	if _, err := s.sessionRepo.FindByID(ctx, sessionID); err != nil {
		return AnonymousCodeResponse{}, mapRepositoryError(err)
	}

	existing, err := s.repo.FindBySessionAndEvaluator(ctx, sessionID, evaluatorID)
	if err == nil {
		return mapToCodeResponse(*existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AnonymousCodeResponse{}, mapRepositoryError(err)
	}

	mapping := NewAnonymousMapping(sessionUUID, evaluatorUUID)
	if err := s.repo.Create(ctx, mapping); err != nil {
		if isPairConflict(err) {
			// Lost the race to a concurrent request for the same pair;
			// the winner's code is the one identity channel.
			winner, ferr := s.repo.FindBySessionAndEvaluator(ctx, sessionID, evaluatorID)
			if ferr != nil {
				return AnonymousCodeResponse{}, mapRepositoryError(ferr)
			}
			return mapToCodeResponse(*winner), nil
		}
		s.logger.Error("create anonymous mapping failed",
			zap.String("request_id", rid),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return AnonymousCodeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("anonymous mapping created",
		zap.String("request_id", rid),
		zap.String("session_id", sessionID),
		zap.String("mapping_id", mapping.ID.String()),
	)

	return mapToCodeResponse(*mapping), nil
}

// ResolveEvaluator looks a code up and returns the bound evaluator id.
// The second return is false for unknown codes.
func (s *service) ResolveEvaluator(ctx context.Context, code string) (string, bool, error) {
	mapping, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return mapping.EvaluatorEmployeeID.String(), true, nil
}

func (s *service) ValidateCode(ctx context.Context, code, sessionID string) (bool, error) {
	mapping, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return mapping.SessionID.String() == sessionID, nil
}

func (s *service) ListSessionCodes(ctx context.Context, sessionID string) ([]MappingResponse, error) {
	if _, err := s.sessionRepo.FindByID(ctx, sessionID); err != nil {
		return nil, mapRepositoryError(err)
	}

	mappings, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	res := make([]MappingResponse, len(mappings))
	for i, m := range mappings {
		res[i] = MappingResponse{
			ID:        m.ID.String(),
			SessionID: m.SessionID.String(),
			Code:      m.Code.String(),
			CreatedAt: m.CreatedAt,
		}
	}
	return res, nil
}

func parseIDs(sessionID, evaluatorID string) (uuid.UUID, uuid.UUID, error) {
	sessionUUID, err := uuid.Parse(sessionID)
	if err != nil {
		return uuid.Nil, uuid.Nil, anonymityerrors.ErrInvalidSessionID
	}
	evaluatorUUID, err := uuid.Parse(evaluatorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, anonymityerrors.ErrInvalidEvaluatorID
	}
	return sessionUUID, evaluatorUUID, nil
}

func mapToCodeResponse(m AnonymousMapping) AnonymousCodeResponse {
	return AnonymousCodeResponse{
		SessionID: m.SessionID.String(),
		Code:      m.Code.String(),
		CreatedAt: m.CreatedAt,
	}
}
