package evaluation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/aFurik/PerformanceEvaluation/internal/anonymity"
	anonymityerrors "github.com/aFurik/PerformanceEvaluation/internal/anonymity/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/competency"
	competencyerrors "github.com/aFurik/PerformanceEvaluation/internal/competency/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	employeeerrors "github.com/aFurik/PerformanceEvaluation/internal/employee/errors"
	evaluationerrors "github.com/aFurik/PerformanceEvaluation/internal/evaluation/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/events"
	"github.com/aFurik/PerformanceEvaluation/internal/messaging/kafka"
	"github.com/aFurik/PerformanceEvaluation/internal/session"
	sessionerrors "github.com/aFurik/PerformanceEvaluation/internal/session/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/clock"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=evaluation_service.go -destination=mock/evaluation_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, req SubmitEvaluationRequest) (EvaluationResponse, error)
	ListAssignments(ctx context.Context, sessionID, evaluatorID string) ([]AssignmentResponse, error)
	GetMyResults(ctx context.Context, sessionID, employeeID string) ([]EvaluationResponse, error)
	GetBySession(ctx context.Context, sessionID string) ([]EvaluationResponse, error)
	Update(ctx context.Context, id string, req UpdateEvaluationRequest) (EvaluationResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db             *sql.DB
	repo           Repository
	anonymity      anonymity.Service
	sessionRepo    session.Repository
	employeeRepo   employee.Repository
	competencyRepo competency.Repository
	outbox         kafka.OutboxRepository
	clk            clock.Clock
	logger         *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	anonymityService anonymity.Service,
	sessionRepo session.Repository,
	employeeRepo employee.Repository,
	competencyRepo competency.Repository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, anonymityService, sessionRepo, employeeRepo, competencyRepo, nil, clk, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	anonymityService anonymity.Service,
	sessionRepo session.Repository,
	employeeRepo employee.Repository,
	competencyRepo competency.Repository,
	outboxRepo kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("evaluation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("evaluation.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{
		db:             db,
		repo:           repo,
		anonymity:      anonymityService,
		sessionRepo:    sessionRepo,
		employeeRepo:   employeeRepo,
		competencyRepo: competencyRepo,
		outbox:         outboxRepo,
		clk:            clk,
		logger:         l,
	}
}

// Submit runs the whole submission pipeline for one result. The attempt
// either fully succeeds or is rejected; there is no intermediate state.
// Check order: code resolution, code-session binding, session window,
// self-review, duplicate, referenced entities, score. The duplicate check
// here is advisory; the insert's unique key is authoritative and a lost
// race comes back as the same duplicate error.
func (s *service) Submit(ctx context.Context, req SubmitEvaluationRequest) (EvaluationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit evaluation requested",
		zap.String("request_id", rid),
		zap.String("session_id", req.SessionID),
	)

	evaluatorID, ok, err := s.anonymity.ResolveEvaluator(ctx, req.AnonymousCode)
	if err != nil {
		s.logger.Error("resolve anonymous code failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	if !ok {
		return EvaluationResponse{}, anonymityerrors.ErrInvalidAnonymousCode
	}

	bound, err := s.anonymity.ValidateCode(ctx, req.AnonymousCode, req.SessionID)
	if err != nil {
		return EvaluationResponse{}, err
	}
	if !bound {
		return EvaluationResponse{}, anonymityerrors.ErrCodeSessionMismatch
	}

	sess, err := s.sessionRepo.FindByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvaluationResponse{}, sessionerrors.ErrSessionNotFound
		}
		return EvaluationResponse{}, err
	}
	if !sess.IsActiveAt(s.clk.Now()) {
		return EvaluationResponse{}, sessionerrors.ErrSessionNotActive
	}

	if evaluatorID == req.EvaluatedEmployeeID {
		return EvaluationResponse{}, evaluationerrors.ErrSelfEvaluationNotAllowed
	}

	if _, err := s.repo.FindByKey(ctx, req.SessionID, evaluatorID, req.EvaluatedEmployeeID, req.CompetencyID); err == nil {
		return EvaluationResponse{}, evaluationerrors.ErrDuplicateEvaluation
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return EvaluationResponse{}, err
	}

	evaluated, err := s.employeeRepo.FindByID(ctx, req.EvaluatedEmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvaluationResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EvaluationResponse{}, err
	}

	comp, err := s.competencyRepo.FindByID(ctx, req.CompetencyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvaluationResponse{}, competencyerrors.ErrCompetencyNotFound
		}
		return EvaluationResponse{}, err
	}

	evaluatorUUID, err := uuid.Parse(evaluatorID)
	if err != nil {
		return EvaluationResponse{}, anonymityerrors.ErrInvalidAnonymousCode
	}

	result, err := NewEvaluationResult(sess.ID, evaluatorUUID, evaluated.ID, comp.ID, req.Score, req.Comment)
	if err != nil {
		return EvaluationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit evaluation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, result); err != nil {
		s.logger.Warn("submit evaluation persist failed",
			zap.String("request_id", rid),
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.EvaluationSubmitted, result); err != nil {
		s.logger.Error("submit evaluation outbox persist failed",
			zap.String("evaluation_id", result.ID.String()),
			zap.Error(err),
		)
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit evaluation commit failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("submit evaluation success",
		zap.String("request_id", rid),
		zap.String("evaluation_id", result.ID.String()),
		zap.String("session_id", req.SessionID),
	)

	return mapToResponse(*result, evaluated.FullName, comp.Name), nil
}

// ListAssignments derives the evaluator's worklist: every employee except
// themselves, the full competency set, and a flag for peers they already
// submitted at least one result for. Nothing here is persisted.
func (s *service) ListAssignments(ctx context.Context, sessionID, evaluatorID string) ([]AssignmentResponse, error) {
	sess, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFound
		}
		return nil, err
	}
	if !sess.IsActiveAt(s.clk.Now()) {
		return nil, sessionerrors.ErrSessionNotActive
	}

	empls, err := s.employeeRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list assignments load employees failed", zap.Error(err))
		return nil, err
	}

	comps, err := s.competencyRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list assignments load competencies failed", zap.Error(err))
		return nil, err
	}

	evaluatedIDs, err := s.repo.DistinctEvaluatedIDs(ctx, sessionID, evaluatorID)
	if err != nil {
		s.logger.Error("list assignments load evaluated peers failed", zap.Error(err))
		return nil, err
	}

	done := make(map[string]struct{}, len(evaluatedIDs))
	for _, id := range evaluatedIDs {
		done[id] = struct{}{}
	}

	assignmentComps := make([]AssignmentCompetency, 0, len(comps))
	for _, c := range comps {
		assignmentComps = append(assignmentComps, AssignmentCompetency{ID: c.ID.String(), Name: c.Name})
	}

	assignments := make([]AssignmentResponse, 0, len(empls))
	for _, e := range empls {
		if e.ID.String() == evaluatorID {
			continue
		}
		_, already := done[e.ID.String()]
		assignments = append(assignments, AssignmentResponse{
			EmployeeID:       e.ID.String(),
			FullName:         e.FullName,
			Position:         e.Position,
			Department:       e.Department,
			Competencies:     assignmentComps,
			AlreadyEvaluated: already,
		})
	}

	return assignments, nil
}

// GetMyResults returns the feedback the caller received in a session.
// The caller is identified by their JWT; who wrote each entry is never
// part of the response.
func (s *service) GetMyResults(ctx context.Context, sessionID, employeeID string) ([]EvaluationResponse, error) {
	if _, err := s.sessionRepo.FindByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFound
		}
		return nil, err
	}

	results, err := s.repo.FindByEvaluated(ctx, sessionID, employeeID)
	if err != nil {
		s.logger.Error("get my results failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return s.enrichResponses(ctx, results)
}

func (s *service) GetBySession(ctx context.Context, sessionID string) ([]EvaluationResponse, error) {
	if _, err := s.sessionRepo.FindByID(ctx, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFound
		}
		return nil, err
	}

	results, err := s.repo.FindBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("get session evaluations failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return s.enrichResponses(ctx, results)
}

// Update replaces score and comment only. Self-review and duplicate rules
// are creation-time rules and are not revisited; the key columns and the
// creation timestamp never change.
func (s *service) Update(ctx context.Context, id string, req UpdateEvaluationRequest) (EvaluationResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return EvaluationResponse{}, evaluationerrors.ErrInvalidEvaluationID
	}

	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	if err := result.Revise(req.Score, req.Comment); err != nil {
		return EvaluationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update evaluation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Update(ctx, result); err != nil {
		s.logger.Error("update evaluation persist failed", zap.String("evaluation_id", id), zap.Error(err))
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.EvaluationUpdated, result); err != nil {
		s.logger.Error("update evaluation outbox persist failed", zap.String("evaluation_id", id), zap.Error(err))
		return EvaluationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update evaluation commit failed", zap.String("request_id", rid), zap.Error(err))
		return EvaluationResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("update evaluation success",
		zap.String("request_id", rid),
		zap.String("evaluation_id", id),
	)

	return s.enrichResponse(ctx, *result)
}

// Delete hard-removes a result. A missing id is reported as not found,
// never swallowed.
func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)

	if _, err := uuid.Parse(id); err != nil {
		return evaluationerrors.ErrInvalidEvaluationID
	}

	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete evaluation begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete evaluation persist failed", zap.String("evaluation_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueueEvent(ctx, tx, events.EvaluationDeleted, result); err != nil {
		s.logger.Error("delete evaluation outbox persist failed", zap.String("evaluation_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete evaluation commit failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete evaluation success",
		zap.String("request_id", rid),
		zap.String("evaluation_id", id),
	)

	return nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, eventType string, result *EvaluationResult) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	event := events.EvaluationRecordedEvent{
		EventType:           eventType,
		EvaluationID:        result.ID.String(),
		SessionID:           result.SessionID.String(),
		EvaluatedEmployeeID: result.EvaluatedEmployeeID.String(),
		CompetencyID:        result.CompetencyID.String(),
		OccurredAt:          s.clk.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "evaluation",
		AggregateID:   result.ID.String(),
		EventType:     eventType,
		Topic:         events.EvaluationRecordedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enrichResponse(ctx context.Context, result EvaluationResult) (EvaluationResponse, error) {
	evaluatedName := ""
	if evaluated, err := s.employeeRepo.FindByID(ctx, result.EvaluatedEmployeeID.String()); err == nil {
		evaluatedName = evaluated.FullName
	}

	compName := ""
	if comp, err := s.competencyRepo.FindByID(ctx, result.CompetencyID.String()); err == nil {
		compName = comp.Name
	}

	return mapToResponse(result, evaluatedName, compName), nil
}

func (s *service) enrichResponses(ctx context.Context, results []EvaluationResult) ([]EvaluationResponse, error) {
	empls, err := s.employeeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	comps, err := s.competencyRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(empls))
	for _, e := range empls {
		names[e.ID.String()] = e.FullName
	}
	compNames := make(map[string]string, len(comps))
	for _, c := range comps {
		compNames[c.ID.String()] = c.Name
	}

	resp := make([]EvaluationResponse, 0, len(results))
	for _, r := range results {
		resp = append(resp, mapToResponse(r, names[r.EvaluatedEmployeeID.String()], compNames[r.CompetencyID.String()]))
	}
	return resp, nil
}

func mapToResponse(result EvaluationResult, evaluatedName, competencyName string) EvaluationResponse {
	return EvaluationResponse{
		ID:                    result.ID.String(),
		SessionID:             result.SessionID.String(),
		EvaluatedEmployeeID:   result.EvaluatedEmployeeID.String(),
		EvaluatedEmployeeName: evaluatedName,
		CompetencyID:          result.CompetencyID.String(),
		CompetencyName:        competencyName,
		Score:                 result.Score,
		Comment:               result.Comment,
		CreatedAt:             result.CreatedAt,
	}
}
