package evaluation_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aFurik/PerformanceEvaluation/internal/anonymity"
	anonymityerrors "github.com/aFurik/PerformanceEvaluation/internal/anonymity/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/competency"
	competencyerrors "github.com/aFurik/PerformanceEvaluation/internal/competency/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	employeeerrors "github.com/aFurik/PerformanceEvaluation/internal/employee/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/evaluation"
	evaluationerrors "github.com/aFurik/PerformanceEvaluation/internal/evaluation/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/messaging/kafka"
	"github.com/aFurik/PerformanceEvaluation/internal/session"
	sessionerrors "github.com/aFurik/PerformanceEvaluation/internal/session/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEvaluationRepository struct {
	withTxFn               func(tx *sql.Tx) evaluation.Repository
	createFn               func(ctx context.Context, result *evaluation.EvaluationResult) error
	findByIDFn             func(ctx context.Context, id string) (*evaluation.EvaluationResult, error)
	findBySessionFn        func(ctx context.Context, sessionID string) ([]evaluation.EvaluationResult, error)
	findByEvaluatorFn      func(ctx context.Context, sessionID, evaluatorID string) ([]evaluation.EvaluationResult, error)
	findByEvaluatedFn      func(ctx context.Context, sessionID, evaluatedID string) ([]evaluation.EvaluationResult, error)
	findByKeyFn            func(ctx context.Context, sessionID, evaluatorID, evaluatedID, competencyID string) (*evaluation.EvaluationResult, error)
	distinctEvaluatedIDsFn func(ctx context.Context, sessionID, evaluatorID string) ([]string, error)
	updateFn               func(ctx context.Context, result *evaluation.EvaluationResult) error
	deleteFn               func(ctx context.Context, id string) error
}

func (f *fakeEvaluationRepository) WithTx(tx *sql.Tx) evaluation.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeEvaluationRepository) Create(ctx context.Context, result *evaluation.EvaluationResult) error {
	if f.createFn != nil {
		return f.createFn(ctx, result)
	}
	return nil
}

func (f *fakeEvaluationRepository) FindByID(ctx context.Context, id string) (*evaluation.EvaluationResult, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEvaluationRepository) FindBySession(ctx context.Context, sessionID string) ([]evaluation.EvaluationResult, error) {
	if f.findBySessionFn != nil {
		return f.findBySessionFn(ctx, sessionID)
	}
	return nil, nil
}

func (f *fakeEvaluationRepository) FindByEvaluator(ctx context.Context, sessionID, evaluatorID string) ([]evaluation.EvaluationResult, error) {
	if f.findByEvaluatorFn != nil {
		return f.findByEvaluatorFn(ctx, sessionID, evaluatorID)
	}
	return nil, nil
}

func (f *fakeEvaluationRepository) FindByEvaluated(ctx context.Context, sessionID, evaluatedID string) ([]evaluation.EvaluationResult, error) {
	if f.findByEvaluatedFn != nil {
		return f.findByEvaluatedFn(ctx, sessionID, evaluatedID)
	}
	return nil, nil
}

func (f *fakeEvaluationRepository) FindByKey(ctx context.Context, sessionID, evaluatorID, evaluatedID, competencyID string) (*evaluation.EvaluationResult, error) {
	if f.findByKeyFn != nil {
		return f.findByKeyFn(ctx, sessionID, evaluatorID, evaluatedID, competencyID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEvaluationRepository) DistinctEvaluatedIDs(ctx context.Context, sessionID, evaluatorID string) ([]string, error) {
	if f.distinctEvaluatedIDsFn != nil {
		return f.distinctEvaluatedIDsFn(ctx, sessionID, evaluatorID)
	}
	return nil, nil
}

func (f *fakeEvaluationRepository) Update(ctx context.Context, result *evaluation.EvaluationResult) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, result)
	}
	return nil
}

func (f *fakeEvaluationRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeAnonymityService struct {
	resolveFn  func(ctx context.Context, code string) (string, bool, error)
	validateFn func(ctx context.Context, code, sessionID string) (bool, error)
}

func (f *fakeAnonymityService) GetOrCreateCode(ctx context.Context, sessionID, evaluatorID string) (anonymity.AnonymousCodeResponse, error) {
	return anonymity.AnonymousCodeResponse{}, nil
}

func (f *fakeAnonymityService) ResolveEvaluator(ctx context.Context, code string) (string, bool, error) {
	if f.resolveFn != nil {
		return f.resolveFn(ctx, code)
	}
	return "", false, nil
}

func (f *fakeAnonymityService) ValidateCode(ctx context.Context, code, sessionID string) (bool, error) {
	if f.validateFn != nil {
		return f.validateFn(ctx, code, sessionID)
	}
	return false, nil
}

func (f *fakeAnonymityService) ListSessionCodes(ctx context.Context, sessionID string) ([]anonymity.MappingResponse, error) {
	return nil, nil
}

type fakeSessionRepository struct {
	findByIDFn func(ctx context.Context, id string) (*session.EvaluationSession, error)
}

func (f *fakeSessionRepository) WithTx(tx *sql.Tx) session.Repository { return f }
func (f *fakeSessionRepository) Create(ctx context.Context, sess *session.EvaluationSession) error {
	return nil
}
func (f *fakeSessionRepository) FindAll(ctx context.Context) ([]session.EvaluationSession, error) {
	return nil, nil
}

func (f *fakeSessionRepository) FindByID(ctx context.Context, id string) (*session.EvaluationSession, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepository) FindActiveAt(ctx context.Context, now time.Time) ([]session.EvaluationSession, error) {
	return nil, nil
}
func (f *fakeSessionRepository) Update(ctx context.Context, sess *session.EvaluationSession) error {
	return nil
}
func (f *fakeSessionRepository) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeSessionRepository) Exists(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type fakeEmployeeRepository struct {
	findAllFn  func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByRole(ctx context.Context, role string) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeEmployeeRepository) Exists(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type fakeCompetencyRepository struct {
	findAllFn  func(ctx context.Context) ([]competency.Competency, error)
	findByIDFn func(ctx context.Context, id string) (*competency.Competency, error)
}

func (f *fakeCompetencyRepository) WithTx(tx *sql.Tx) competency.Repository { return f }
func (f *fakeCompetencyRepository) Create(ctx context.Context, c *competency.Competency) error {
	return nil
}

func (f *fakeCompetencyRepository) FindAll(ctx context.Context) ([]competency.Competency, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeCompetencyRepository) FindByID(ctx context.Context, id string) (*competency.Competency, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCompetencyRepository) Update(ctx context.Context, c *competency.Competency) error {
	return nil
}
func (f *fakeCompetencyRepository) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeCompetencyRepository) Exists(ctx context.Context, id string) (bool, error) {
	return false, nil
}
func (f *fakeCompetencyRepository) InUse(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type evaluationServiceDeps struct {
	db             *sql.DB
	sqlMock        sqlmock.Sqlmock
	repo           *fakeEvaluationRepository
	anonymity      *fakeAnonymityService
	sessionRepo    *fakeSessionRepository
	employeeRepo   *fakeEmployeeRepository
	competencyRepo *fakeCompetencyRepository
	outbox         *fakeOutboxRepository
	service        evaluation.Service
}

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func setupEvaluationServiceTest(t *testing.T) *evaluationServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &evaluationServiceDeps{
		db:             db,
		sqlMock:        sqlMock,
		repo:           &fakeEvaluationRepository{},
		anonymity:      &fakeAnonymityService{},
		sessionRepo:    &fakeSessionRepository{},
		employeeRepo:   &fakeEmployeeRepository{},
		competencyRepo: &fakeCompetencyRepository{},
		outbox:         &fakeOutboxRepository{},
	}

	deps.service = evaluation.NewServiceWithOutbox(
		db,
		deps.repo,
		deps.anonymity,
		deps.sessionRepo,
		deps.employeeRepo,
		deps.competencyRepo,
		deps.outbox,
		clock.Fixed(testNow),
	)

	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func activeSession(id uuid.UUID) *session.EvaluationSession {
	return &session.EvaluationSession{
		ID:        id,
		Title:     "Q1 Review",
		StartDate: testNow.Add(-24 * time.Hour),
		EndDate:   testNow.Add(24 * time.Hour),
		CreatedBy: uuid.New(),
	}
}

type submitFixture struct {
	sessionID   uuid.UUID
	evaluatorID uuid.UUID
	evaluatedID uuid.UUID
	compID      uuid.UUID
	code        string
	req         evaluation.SubmitEvaluationRequest
}

func newSubmitFixture() submitFixture {
	f := submitFixture{
		sessionID:   uuid.New(),
		evaluatorID: uuid.New(),
		evaluatedID: uuid.New(),
		compID:      uuid.New(),
		code:        uuid.NewString(),
	}
	f.req = evaluation.SubmitEvaluationRequest{
		AnonymousCode:       f.code,
		SessionID:           f.sessionID.String(),
		EvaluatedEmployeeID: f.evaluatedID.String(),
		CompetencyID:        f.compID.String(),
		Score:               4,
		Comment:             "Solid collaborator",
	}
	return f
}

func wireHappyPath(deps *evaluationServiceDeps, f submitFixture) {
	deps.anonymity.resolveFn = func(ctx context.Context, code string) (string, bool, error) {
		return f.evaluatorID.String(), true, nil
	}
	deps.anonymity.validateFn = func(ctx context.Context, code, sessionID string) (bool, error) {
		return true, nil
	}
	deps.sessionRepo.findByIDFn = func(ctx context.Context, id string) (*session.EvaluationSession, error) {
		return activeSession(f.sessionID), nil
	}
	deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
		return &employee.Employee{ID: f.evaluatedID, FullName: "Dana Reyes", Department: "Engineering"}, nil
	}
	deps.competencyRepo.findByIDFn = func(ctx context.Context, id string) (*competency.Competency, error) {
		return &competency.Competency{ID: f.compID, Name: "Communication"}, nil
	}
}

func TestEvaluationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		expectTx(t, deps.sqlMock, true)

		var created *evaluation.EvaluationResult
		deps.repo.createFn = func(ctx context.Context, result *evaluation.EvaluationResult) error {
			created = result
			return nil
		}

		resp, err := deps.service.Submit(ctx, f.req)

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, f.evaluatorID, created.EvaluatorEmployeeID)
		assert.Equal(t, f.evaluatedID, created.EvaluatedEmployeeID)
		assert.Equal(t, 4, resp.Score)
		assert.Equal(t, "Dana Reyes", resp.EvaluatedEmployeeName)
		assert.Equal(t, "Communication", resp.CompetencyName)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("boundary scores accepted", func(t *testing.T) {
		for _, score := range []int{1, 5} {
			deps := setupEvaluationServiceTest(t)

			f := newSubmitFixture()
			f.req.Score = score
			wireHappyPath(deps, f)
			expectTx(t, deps.sqlMock, true)

			resp, err := deps.service.Submit(ctx, f.req)

			assert.NoError(t, err)
			assert.Equal(t, score, resp.Score)
			deps.db.Close()
		}
	})

	t.Run("negative unknown code", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		deps.anonymity.resolveFn = func(ctx context.Context, code string) (string, bool, error) {
			return "", false, nil
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, anonymityerrors.ErrInvalidAnonymousCode)
	})

	t.Run("negative code bound to another session", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		deps.anonymity.resolveFn = func(ctx context.Context, code string) (string, bool, error) {
			return f.evaluatorID.String(), true, nil
		}
		deps.anonymity.validateFn = func(ctx context.Context, code, sessionID string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, anonymityerrors.ErrCodeSessionMismatch)
	})

	t.Run("negative session missing", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		deps.sessionRepo.findByIDFn = func(ctx context.Context, id string) (*session.EvaluationSession, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFound)
	})

	t.Run("negative session window closed", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		deps.sessionRepo.findByIDFn = func(ctx context.Context, id string) (*session.EvaluationSession, error) {
			sess := activeSession(f.sessionID)
			sess.StartDate = testNow.Add(-48 * time.Hour)
			sess.EndDate = testNow.Add(-24 * time.Hour)
			return sess, nil
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotActive)
	})

	t.Run("negative self evaluation", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		deps.anonymity.resolveFn = func(ctx context.Context, code string) (string, bool, error) {
			return f.evaluatedID.String(), true, nil
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, evaluationerrors.ErrSelfEvaluationNotAllowed)
	})

	t.Run("negative duplicate found by pre-check", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		deps.repo.findByKeyFn = func(ctx context.Context, sessionID, evaluatorID, evaluatedID, competencyID string) (*evaluation.EvaluationResult, error) {
			return &evaluation.EvaluationResult{ID: uuid.New()}, nil
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, evaluationerrors.ErrDuplicateEvaluation)
	})

	t.Run("negative duplicate detected by unique constraint", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, result *evaluation.EvaluationResult) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_evaluation_results_key"}
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, evaluationerrors.ErrDuplicateEvaluation)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative evaluated employee missing", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		deps.employeeRepo.findByIDFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("negative competency missing", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		deps.competencyRepo.findByIDFn = func(ctx context.Context, id string) (*competency.Competency, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.ErrorIs(t, err, competencyerrors.ErrCompetencyNotFound)
	})

	t.Run("negative score out of range", func(t *testing.T) {
		for _, score := range []int{0, 6, -3} {
			deps := setupEvaluationServiceTest(t)

			f := newSubmitFixture()
			f.req.Score = score
			wireHappyPath(deps, f)

			_, err := deps.service.Submit(ctx, f.req)

			assert.ErrorIs(t, err, evaluationerrors.ErrInvalidScore)
			deps.db.Close()
		}
	})

	t.Run("outbox payload never names the evaluator", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		wireHappyPath(deps, f)
		expectTx(t, deps.sqlMock, true)

		var payload map[string]any
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			assert.NoError(t, json.Unmarshal(event.Payload, &payload))
			return nil
		}

		_, err := deps.service.Submit(ctx, f.req)

		assert.NoError(t, err)
		assert.NotNil(t, payload)
		for key, value := range payload {
			assert.NotContains(t, key, "evaluator")
			if s, ok := value.(string); ok {
				assert.NotEqual(t, f.evaluatorID.String(), s)
				assert.NotEqual(t, f.code, s)
			}
		}
	})
}

func TestEvaluationService_Update(t *testing.T) {
	ctx := context.Background()

	existing := func(f submitFixture) *evaluation.EvaluationResult {
		return &evaluation.EvaluationResult{
			ID:                  uuid.New(),
			SessionID:           f.sessionID,
			EvaluatorEmployeeID: f.evaluatorID,
			EvaluatedEmployeeID: f.evaluatedID,
			CompetencyID:        f.compID,
			Score:               3,
			Comment:             "original",
			CreatedAt:           testNow.Add(-time.Hour),
		}
	}

	t.Run("success only score and comment change", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		orig := existing(f)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*evaluation.EvaluationResult, error) {
			copied := *orig
			return &copied, nil
		}
		expectTx(t, deps.sqlMock, true)

		var updated *evaluation.EvaluationResult
		deps.repo.updateFn = func(ctx context.Context, result *evaluation.EvaluationResult) error {
			updated = result
			return nil
		}

		_, err := deps.service.Update(ctx, orig.ID.String(), evaluation.UpdateEvaluationRequest{
			Score:   5,
			Comment: "revised",
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, updated.Score)
		assert.Equal(t, "revised", updated.Comment)
		assert.Equal(t, orig.SessionID, updated.SessionID)
		assert.Equal(t, orig.EvaluatorEmployeeID, updated.EvaluatorEmployeeID)
		assert.Equal(t, orig.EvaluatedEmployeeID, updated.EvaluatedEmployeeID)
		assert.Equal(t, orig.CompetencyID, updated.CompetencyID)
		assert.Equal(t, orig.CreatedAt, updated.CreatedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative invalid score", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		orig := existing(f)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*evaluation.EvaluationResult, error) {
			copied := *orig
			return &copied, nil
		}

		_, err := deps.service.Update(ctx, orig.ID.String(), evaluation.UpdateEvaluationRequest{Score: 9})

		assert.ErrorIs(t, err, evaluationerrors.ErrInvalidScore)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*evaluation.EvaluationResult, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Update(ctx, uuid.NewString(), evaluation.UpdateEvaluationRequest{Score: 4})

		assert.ErrorIs(t, err, evaluationerrors.ErrEvaluationNotFound)
	})
}

func TestEvaluationService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, rid string) (*evaluation.EvaluationResult, error) {
			return &evaluation.EvaluationResult{ID: id, SessionID: uuid.New()}, nil
		}
		expectTx(t, deps.sqlMock, true)

		deleted := ""
		deps.repo.deleteFn = func(ctx context.Context, rid string) error {
			deleted = rid
			return nil
		}

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), deleted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative missing id reports not found", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*evaluation.EvaluationResult, error) {
			return nil, gorm.ErrRecordNotFound
		}

		err := deps.service.Delete(ctx, uuid.NewString())

		assert.ErrorIs(t, err, evaluationerrors.ErrEvaluationNotFound)
	})

	t.Run("negative malformed id", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Delete(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, evaluationerrors.ErrInvalidEvaluationID)
	})
}

func TestEvaluationService_ListAssignments(t *testing.T) {
	ctx := context.Background()

	t.Run("success excludes evaluator and flags done peers", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		peerA := uuid.New()
		peerB := uuid.New()

		deps.sessionRepo.findByIDFn = func(ctx context.Context, id string) (*session.EvaluationSession, error) {
			return activeSession(f.sessionID), nil
		}
		deps.employeeRepo.findAllFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: f.evaluatorID, FullName: "Me"},
				{ID: peerA, FullName: "Peer A", Department: "Engineering"},
				{ID: peerB, FullName: "Peer B", Department: "Sales"},
			}, nil
		}
		deps.competencyRepo.findAllFn = func(ctx context.Context) ([]competency.Competency, error) {
			return []competency.Competency{
				{ID: uuid.New(), Name: "Communication"},
				{ID: uuid.New(), Name: "Teamwork"},
			}, nil
		}
		deps.repo.distinctEvaluatedIDsFn = func(ctx context.Context, sessionID, evaluatorID string) ([]string, error) {
			return []string{peerA.String()}, nil
		}

		assignments, err := deps.service.ListAssignments(ctx, f.sessionID.String(), f.evaluatorID.String())

		assert.NoError(t, err)
		assert.Len(t, assignments, 2)
		for _, a := range assignments {
			assert.NotEqual(t, f.evaluatorID.String(), a.EmployeeID)
			assert.Len(t, a.Competencies, 2)
			if a.EmployeeID == peerA.String() {
				assert.True(t, a.AlreadyEvaluated)
			} else {
				assert.False(t, a.AlreadyEvaluated)
			}
		}
	})

	t.Run("negative inactive session", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		deps.sessionRepo.findByIDFn = func(ctx context.Context, id string) (*session.EvaluationSession, error) {
			sess := activeSession(f.sessionID)
			sess.StartDate = testNow.Add(24 * time.Hour)
			sess.EndDate = testNow.Add(48 * time.Hour)
			return sess, nil
		}

		_, err := deps.service.ListAssignments(ctx, f.sessionID.String(), f.evaluatorID.String())

		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotActive)
	})
}

func TestEvaluationService_ResponsesCarryNoEvaluator(t *testing.T) {
	ctx := context.Background()

	deps := setupEvaluationServiceTest(t)
	defer deps.db.Close()

	f := newSubmitFixture()
	deps.sessionRepo.findByIDFn = func(ctx context.Context, id string) (*session.EvaluationSession, error) {
		return activeSession(f.sessionID), nil
	}
	deps.repo.findBySessionFn = func(ctx context.Context, sessionID string) ([]evaluation.EvaluationResult, error) {
		return []evaluation.EvaluationResult{{
			ID:                  uuid.New(),
			SessionID:           f.sessionID,
			EvaluatorEmployeeID: f.evaluatorID,
			EvaluatedEmployeeID: f.evaluatedID,
			CompetencyID:        f.compID,
			Score:               5,
		}}, nil
	}
	deps.employeeRepo.findAllFn = func(ctx context.Context) ([]employee.Employee, error) {
		return []employee.Employee{{ID: f.evaluatedID, FullName: "Dana Reyes"}}, nil
	}
	deps.competencyRepo.findAllFn = func(ctx context.Context) ([]competency.Competency, error) {
		return []competency.Competency{{ID: f.compID, Name: "Communication"}}, nil
	}

	resp, err := deps.service.GetBySession(ctx, f.sessionID.String())
	assert.NoError(t, err)
	assert.Len(t, resp, 1)

	// Serialize the DTO and scan every field for the evaluator id.
	raw, err := json.Marshal(resp[0])
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), f.evaluatorID.String())

	var fields map[string]any
	assert.NoError(t, json.Unmarshal(raw, &fields))
	for key := range fields {
		assert.NotContains(t, key, "evaluator")
	}
}

func TestEvaluationService_GetMyResults(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns feedback received, not submitted", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()
		callerID := f.evaluatedID
		deps.sessionRepo.findByIDFn = func(ctx context.Context, id string) (*session.EvaluationSession, error) {
			return activeSession(f.sessionID), nil
		}
		deps.repo.findByEvaluatorFn = func(ctx context.Context, sessionID, evaluatorID string) ([]evaluation.EvaluationResult, error) {
			t.Fatal("my-results must be looked up by the evaluated side")
			return nil, nil
		}
		deps.repo.findByEvaluatedFn = func(ctx context.Context, sessionID, evaluatedID string) ([]evaluation.EvaluationResult, error) {
			assert.Equal(t, f.sessionID.String(), sessionID)
			assert.Equal(t, callerID.String(), evaluatedID)
			return []evaluation.EvaluationResult{{
				ID:                  uuid.New(),
				SessionID:           f.sessionID,
				EvaluatorEmployeeID: f.evaluatorID,
				EvaluatedEmployeeID: callerID,
				CompetencyID:        f.compID,
				Score:               4,
				Comment:             "Clear and constructive",
			}}, nil
		}
		deps.employeeRepo.findAllFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{{ID: callerID, FullName: "Dana Reyes"}}, nil
		}
		deps.competencyRepo.findAllFn = func(ctx context.Context) ([]competency.Competency, error) {
			return []competency.Competency{{ID: f.compID, Name: "Communication"}}, nil
		}

		resp, err := deps.service.GetMyResults(ctx, f.sessionID.String(), callerID.String())

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, callerID.String(), resp[0].EvaluatedEmployeeID)
		assert.Equal(t, 4, resp[0].Score)
		assert.Equal(t, "Clear and constructive", resp[0].Comment)
	})

	t.Run("negative session missing", func(t *testing.T) {
		deps := setupEvaluationServiceTest(t)
		defer deps.db.Close()

		f := newSubmitFixture()

		_, err := deps.service.GetMyResults(ctx, f.sessionID.String(), f.evaluatedID.String())

		assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFound)
	})
}

func TestEvaluationService_SubmitResolveError(t *testing.T) {
	deps := setupEvaluationServiceTest(t)
	defer deps.db.Close()

	f := newSubmitFixture()
	deps.anonymity.resolveFn = func(ctx context.Context, code string) (string, bool, error) {
		return "", false, errors.New("redis down")
	}

	_, err := deps.service.Submit(context.Background(), f.req)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, anonymityerrors.ErrInvalidAnonymousCode)
}
