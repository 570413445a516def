package report

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/aFurik/PerformanceEvaluation/internal/competency"
	"github.com/aFurik/PerformanceEvaluation/internal/employee"
	employeeerrors "github.com/aFurik/PerformanceEvaluation/internal/employee/errors"
	"github.com/aFurik/PerformanceEvaluation/internal/evaluation"
	"github.com/aFurik/PerformanceEvaluation/internal/session"
	sessionerrors "github.com/aFurik/PerformanceEvaluation/internal/session/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const reportCacheTTL = 5 * time.Minute

func SessionSummaryKey(sessionID string) string {
	return "reports:session:" + sessionID + ":summary"
}

func CompetencyAnalysisKey(sessionID string) string {
	return "reports:session:" + sessionID + ":competencies"
}

func EvaluationSummariesKey(sessionID string) string {
	return "reports:session:" + sessionID + ":progress"
}

// Service computes aggregate projections over a session's result set. It
// reads evaluation rows and the entity catalog, and nothing else: this
// package has no path to the anonymity mapping, so no report can leak an
// evaluator no matter what the caller asks for.
//
//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	SessionSummary(ctx context.Context, sessionID string) (SessionSummaryReport, error)
	EmployeeReport(ctx context.Context, sessionID, employeeID string) (EmployeeReport, error)
	CompetencyAnalysis(ctx context.Context, sessionID string) (CompetencyAnalysisReport, error)
	DepartmentReport(ctx context.Context, sessionID, department string) (DepartmentReport, error)
	EvaluationSummaries(ctx context.Context, sessionID string) ([]EvaluationSummary, error)
	InvalidateSessionCaches(ctx context.Context, sessionID string) error
}

type service struct {
	evalRepo       evaluation.Repository
	sessionRepo    session.Repository
	employeeRepo   employee.Repository
	competencyRepo competency.Repository
	rdb            *redis.Client
	sf             *singleflight.Group
	logger         *zap.Logger
}

func NewService(
	evalRepo evaluation.Repository,
	sessionRepo session.Repository,
	employeeRepo employee.Repository,
	competencyRepo competency.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		evalRepo:       evalRepo,
		sessionRepo:    sessionRepo,
		employeeRepo:   employeeRepo,
		competencyRepo: competencyRepo,
		rdb:            rdb,
		sf:             &singleflight.Group{},
		logger:         l,
	}
}

// SessionSummary aggregates the whole session. CompletedEvaluations is the
// raw count of submitted results while CompletionPercentage divides by the
// full possible-pair denominator; the two deliberately use different
// denominators and must not be reconciled.
func (s *service) SessionSummary(ctx context.Context, sessionID string) (SessionSummaryReport, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, SessionSummaryKey(sessionID)).Result(); err == nil {
			var resp SessionSummaryReport
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(SessionSummaryKey(sessionID), func() (interface{}, error) {
		resp, err := s.buildSessionSummary(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		s.cacheReport(ctx, SessionSummaryKey(sessionID), resp)
		return resp, nil
	})
	if err != nil {
		return SessionSummaryReport{}, err
	}

	return v.(SessionSummaryReport), nil
}

func (s *service) buildSessionSummary(ctx context.Context, sessionID string) (SessionSummaryReport, error) {
	sess, empls, evals, comps, err := s.loadSessionData(ctx, sessionID)
	if err != nil {
		return SessionSummaryReport{}, err
	}

	deptSummaries := make([]DepartmentSummary, 0)
	for _, dept := range departmentOrder(empls) {
		members := employeesIn(empls, dept)
		deptEvals := filterByEvaluated(evals, idSet(members))
		deptSummaries = append(deptSummaries, DepartmentSummary{
			Department:           dept,
			EmployeeCount:        len(members),
			AverageScore:         averageScore(deptEvals),
			CompletedEvaluations: len(deptEvals),
		})
	}

	compAverages := make([]CompetencyAverage, 0, len(comps))
	for _, c := range comps {
		compEvals := filterByCompetency(evals, c.ID.String())
		compAverages = append(compAverages, CompetencyAverage{
			CompetencyID:    c.ID.String(),
			CompetencyName:  c.Name,
			AverageScore:    averageScore(compEvals),
			EvaluationCount: len(compEvals),
		})
	}

	// Self-evaluation pairs are excluded from the denominator.
	possible := len(empls) * len(comps) * (len(empls) - 1)
	completion := 0.0
	if possible > 0 {
		completion = round2(float64(len(evals)) / float64(possible) * 100)
	}

	return SessionSummaryReport{
		SessionID:            sess.ID.String(),
		SessionTitle:         sess.Title,
		StartDate:            sess.StartDate,
		EndDate:              sess.EndDate,
		TotalEmployees:       len(empls),
		TotalEvaluations:     len(evals),
		CompletedEvaluations: len(evals),
		CompletionPercentage: completion,
		OverallAverageScore:  averageScore(evals),
		DepartmentSummaries:  deptSummaries,
		CompetencyAverages:   compAverages,
	}, nil
}

// EmployeeReport aggregates everything submitted about one employee. The
// overall average is the mean of the per-competency averages, not of the
// raw scores; the two differ whenever competencies have unequal counts.
func (s *service) EmployeeReport(ctx context.Context, sessionID, employeeID string) (EmployeeReport, error) {
	empl, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeReport{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeReport{}, err
	}

	sess, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeReport{}, sessionerrors.ErrSessionNotFound
		}
		return EmployeeReport{}, err
	}

	evals, err := s.evalRepo.FindByEvaluated(ctx, sessionID, employeeID)
	if err != nil {
		s.logger.Error("employee report load results failed", zap.Error(err))
		return EmployeeReport{}, err
	}

	comps, err := s.competencyRepo.FindAll(ctx)
	if err != nil {
		return EmployeeReport{}, err
	}

	competencyScores := make([]CompetencyScore, 0, len(comps))
	allComments := make([]string, 0)

	for _, c := range comps {
		compEvals := filterByCompetency(evals, c.ID.String())
		if len(compEvals) == 0 {
			continue
		}

		comments := make([]string, 0, len(compEvals))
		for _, e := range compEvals {
			if strings.TrimSpace(e.Comment) != "" {
				comments = append(comments, e.Comment)
			}
		}

		competencyScores = append(competencyScores, CompetencyScore{
			CompetencyID:    c.ID.String(),
			CompetencyName:  c.Name,
			AverageScore:    averageScore(compEvals),
			EvaluationCount: len(compEvals),
			Comments:        comments,
		})
		allComments = append(allComments, comments...)
	}

	overall := 0.0
	if len(competencyScores) > 0 {
		sum := 0.0
		for _, cs := range competencyScores {
			sum += cs.AverageScore
		}
		overall = round2(sum / float64(len(competencyScores)))
	}

	return EmployeeReport{
		EmployeeID:          empl.ID.String(),
		FullName:            empl.FullName,
		Position:            empl.Position,
		Department:          empl.Department,
		SessionID:           sess.ID.String(),
		SessionTitle:        sess.Title,
		CompetencyScores:    competencyScores,
		OverallAverageScore: overall,
		TotalEvaluations:    len(evals),
		AnonymousComments:   allComments,
	}, nil
}

func (s *service) CompetencyAnalysis(ctx context.Context, sessionID string) (CompetencyAnalysisReport, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, CompetencyAnalysisKey(sessionID)).Result(); err == nil {
			var resp CompetencyAnalysisReport
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(CompetencyAnalysisKey(sessionID), func() (interface{}, error) {
		resp, err := s.buildCompetencyAnalysis(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		s.cacheReport(ctx, CompetencyAnalysisKey(sessionID), resp)
		return resp, nil
	})
	if err != nil {
		return CompetencyAnalysisReport{}, err
	}

	return v.(CompetencyAnalysisReport), nil
}

func (s *service) buildCompetencyAnalysis(ctx context.Context, sessionID string) (CompetencyAnalysisReport, error) {
	sess, empls, evals, comps, err := s.loadSessionData(ctx, sessionID)
	if err != nil {
		return CompetencyAnalysisReport{}, err
	}

	details := make([]CompetencyDetail, 0, len(comps))
	for _, c := range comps {
		compEvals := filterByCompetency(evals, c.ID.String())
		if len(compEvals) == 0 {
			continue
		}

		// All five score rows appear, including zero-count ones.
		distribution := make([]ScoreDistribution, 0, evaluation.MaxScore)
		for score := evaluation.MinScore; score <= evaluation.MaxScore; score++ {
			count := 0
			for _, e := range compEvals {
				if e.Score == score {
					count++
				}
			}
			distribution = append(distribution, ScoreDistribution{
				Score:      score,
				Count:      count,
				Percentage: round2(float64(count) / float64(len(compEvals)) * 100),
			})
		}

		// Departments with no results for this competency are omitted.
		breakdown := make([]DepartmentCompetency, 0)
		for _, dept := range departmentOrder(empls) {
			members := idSet(employeesIn(empls, dept))
			deptCompEvals := filterByEvaluated(compEvals, members)
			if len(deptCompEvals) == 0 {
				continue
			}
			breakdown = append(breakdown, DepartmentCompetency{
				Department:      dept,
				AverageScore:    averageScore(deptCompEvals),
				EvaluationCount: len(deptCompEvals),
			})
		}

		details = append(details, CompetencyDetail{
			CompetencyID:        c.ID.String(),
			CompetencyName:      c.Name,
			Description:         c.Description,
			AverageScore:        averageScore(compEvals),
			TotalEvaluations:    len(compEvals),
			ScoreDistribution:   distribution,
			DepartmentBreakdown: breakdown,
		})
	}

	return CompetencyAnalysisReport{
		SessionID:         sess.ID.String(),
		SessionTitle:      sess.Title,
		CompetencyDetails: details,
	}, nil
}

func (s *service) DepartmentReport(ctx context.Context, sessionID, department string) (DepartmentReport, error) {
	sess, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentReport{}, sessionerrors.ErrSessionNotFound
		}
		return DepartmentReport{}, err
	}

	deptEmpls, err := s.employeeRepo.FindByDepartment(ctx, department)
	if err != nil {
		return DepartmentReport{}, err
	}

	evals, err := s.evalRepo.FindBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("department report load results failed", zap.Error(err))
		return DepartmentReport{}, err
	}

	comps, err := s.competencyRepo.FindAll(ctx)
	if err != nil {
		return DepartmentReport{}, err
	}

	members := idSet(deptEmpls)
	deptEvals := filterByEvaluated(evals, members)

	employeeSummaries := make([]EmployeeSummary, 0, len(deptEmpls))
	for _, empl := range deptEmpls {
		emplEvals := filterByEvaluated(deptEvals, map[string]struct{}{empl.ID.String(): {}})
		employeeSummaries = append(employeeSummaries, EmployeeSummary{
			EmployeeID:      empl.ID.String(),
			FullName:        empl.FullName,
			Position:        empl.Position,
			AverageScore:    averageScore(emplEvals),
			EvaluationCount: len(emplEvals),
		})
	}

	compAverages := make([]CompetencyAverage, 0, len(comps))
	for _, c := range comps {
		deptCompEvals := filterByCompetency(deptEvals, c.ID.String())
		if len(deptCompEvals) == 0 {
			continue
		}
		compAverages = append(compAverages, CompetencyAverage{
			CompetencyID:    c.ID.String(),
			CompetencyName:  c.Name,
			AverageScore:    averageScore(deptCompEvals),
			EvaluationCount: len(deptCompEvals),
		})
	}

	return DepartmentReport{
		Department:         department,
		SessionID:          sess.ID.String(),
		SessionTitle:       sess.Title,
		TotalEmployees:     len(deptEmpls),
		AverageScore:       averageScore(deptEvals),
		EmployeeSummaries:  employeeSummaries,
		CompetencyAverages: compAverages,
	}, nil
}

func (s *service) EvaluationSummaries(ctx context.Context, sessionID string) ([]EvaluationSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EvaluationSummariesKey(sessionID)).Result(); err == nil {
			var resp []EvaluationSummary
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EvaluationSummariesKey(sessionID), func() (interface{}, error) {
		resp, err := s.buildEvaluationSummaries(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		s.cacheReport(ctx, EvaluationSummariesKey(sessionID), resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EvaluationSummary), nil
}

func (s *service) buildEvaluationSummaries(ctx context.Context, sessionID string) ([]EvaluationSummary, error) {
	_, empls, evals, comps, err := s.loadSessionData(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	summaries := make([]EvaluationSummary, 0, len(empls))
	for _, empl := range empls {
		emplEvals := filterByEvaluated(evals, map[string]struct{}{empl.ID.String(): {}})
		possible := len(comps) * (len(empls) - 1)
		completion := 0.0
		if possible > 0 {
			completion = round2(float64(len(emplEvals)) / float64(possible) * 100)
		}

		summaries = append(summaries, EvaluationSummary{
			EmployeeID:               empl.ID.String(),
			FullName:                 empl.FullName,
			Department:               empl.Department,
			Position:                 empl.Position,
			AverageScore:             averageScore(emplEvals),
			CompletedEvaluations:     len(emplEvals),
			TotalPossibleEvaluations: possible,
			CompletionPercentage:     completion,
		})
	}

	return summaries, nil
}

// InvalidateSessionCaches drops the cached session-level projections so
// the next read recomputes. Employee and department reports are computed
// on demand and never cached.
func (s *service) InvalidateSessionCaches(ctx context.Context, sessionID string) error {
	if s.rdb == nil {
		return nil
	}

	err := s.rdb.Del(ctx,
		SessionSummaryKey(sessionID),
		CompetencyAnalysisKey(sessionID),
		EvaluationSummariesKey(sessionID),
	).Err()
	if err != nil {
		s.logger.Error("invalidate report caches failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *service) loadSessionData(ctx context.Context, sessionID string) (
	*session.EvaluationSession,
	[]employee.Employee,
	[]evaluation.EvaluationResult,
	[]competency.Competency,
	error,
) {
	sess, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, nil, sessionerrors.ErrSessionNotFound
		}
		return nil, nil, nil, nil, err
	}

	empls, err := s.employeeRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	evals, err := s.evalRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	comps, err := s.competencyRepo.FindAll(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return sess, empls, evals, comps, nil
}

func (s *service) cacheReport(ctx context.Context, key string, v any) {
	if s.rdb == nil {
		return
	}
	if payload, err := json.Marshal(v); err == nil {
		s.rdb.Set(ctx, key, payload, reportCacheTTL)
	}
}

// averageScore is the arithmetic mean rounded to two decimals, 0 for an
// empty subset.
func averageScore(evals []evaluation.EvaluationResult) float64 {
	if len(evals) == 0 {
		return 0
	}
	sum := 0
	for _, e := range evals {
		sum += e.Score
	}
	return round2(float64(sum) / float64(len(evals)))
}

// round2 rounds to two decimals, ties to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// departmentOrder lists departments in first-seen employee order so report
// rows come out deterministically.
func departmentOrder(empls []employee.Employee) []string {
	seen := make(map[string]struct{}, len(empls))
	order := make([]string, 0)
	for _, e := range empls {
		if _, ok := seen[e.Department]; ok {
			continue
		}
		seen[e.Department] = struct{}{}
		order = append(order, e.Department)
	}
	return order
}

func employeesIn(empls []employee.Employee, department string) []employee.Employee {
	members := make([]employee.Employee, 0)
	for _, e := range empls {
		if e.Department == department {
			members = append(members, e)
		}
	}
	return members
}

func idSet(empls []employee.Employee) map[string]struct{} {
	set := make(map[string]struct{}, len(empls))
	for _, e := range empls {
		set[e.ID.String()] = struct{}{}
	}
	return set
}

func filterByEvaluated(evals []evaluation.EvaluationResult, evaluatedIDs map[string]struct{}) []evaluation.EvaluationResult {
	filtered := make([]evaluation.EvaluationResult, 0, len(evals))
	for _, e := range evals {
		if _, ok := evaluatedIDs[e.EvaluatedEmployeeID.String()]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func filterByCompetency(evals []evaluation.EvaluationResult, competencyID string) []evaluation.EvaluationResult {
	filtered := make([]evaluation.EvaluationResult, 0, len(evals))
	for _, e := range evals {
		if e.CompetencyID.String() == competencyID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
