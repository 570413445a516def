package evaluation

import "time"

type SubmitEvaluationRequest struct {
	AnonymousCode       string `json:"anonymous_code" binding:"required"`
	SessionID           string `json:"session_id" binding:"required,uuid"`
	EvaluatedEmployeeID string `json:"evaluated_employee_id" binding:"required,uuid"`
	CompetencyID        string `json:"competency_id" binding:"required,uuid"`
	Score               int    `json:"score" binding:"required,min=1,max=5"`
	Comment             string `json:"comment" binding:"max=2000"`
}

type UpdateEvaluationRequest struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// EvaluationResponse is the outward view of a result. It carries the
// evaluated side and the competency only; there is no evaluator field to
// omit because the type never had one.
type EvaluationResponse struct {
	ID                    string    `json:"id"`
	SessionID             string    `json:"session_id"`
	EvaluatedEmployeeID   string    `json:"evaluated_employee_id"`
	EvaluatedEmployeeName string    `json:"evaluated_employee_name"`
	CompetencyID          string    `json:"competency_id"`
	CompetencyName        string    `json:"competency_name"`
	Score                 int       `json:"score"`
	Comment               string    `json:"comment"`
	CreatedAt             time.Time `json:"created_at"`
}

type AssignmentCompetency struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AssignmentResponse is one pending-or-done peer row for an evaluator:
// every colleague except themselves, with the competency set to rate them
// on. AlreadyEvaluated is true once at least one result exists for the
// pair, across any competency.
type AssignmentResponse struct {
	EmployeeID       string                 `json:"employee_id"`
	FullName         string                 `json:"full_name"`
	Position         string                 `json:"position"`
	Department       string                 `json:"department"`
	Competencies     []AssignmentCompetency `json:"competencies"`
	AlreadyEvaluated bool                   `json:"already_evaluated"`
}
