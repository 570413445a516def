package report

import "time"

// Report DTOs are read-only projections over a session's result set.
// None of them carry an evaluator reference in any form.

type SessionSummaryReport struct {
	SessionID            string              `json:"session_id"`
	SessionTitle         string              `json:"session_title"`
	StartDate            time.Time           `json:"start_date"`
	EndDate              time.Time           `json:"end_date"`
	TotalEmployees       int                 `json:"total_employees"`
	TotalEvaluations     int                 `json:"total_evaluations"`
	CompletedEvaluations int                 `json:"completed_evaluations"`
	CompletionPercentage float64             `json:"completion_percentage"`
	OverallAverageScore  float64             `json:"overall_average_score"`
	DepartmentSummaries  []DepartmentSummary `json:"department_summaries"`
	CompetencyAverages   []CompetencyAverage `json:"competency_averages"`
}

type DepartmentSummary struct {
	Department           string  `json:"department"`
	EmployeeCount        int     `json:"employee_count"`
	AverageScore         float64 `json:"average_score"`
	CompletedEvaluations int     `json:"completed_evaluations"`
}

type CompetencyAverage struct {
	CompetencyID    string  `json:"competency_id"`
	CompetencyName  string  `json:"competency_name"`
	AverageScore    float64 `json:"average_score"`
	EvaluationCount int     `json:"evaluation_count"`
}

type EmployeeReport struct {
	EmployeeID          string            `json:"employee_id"`
	FullName            string            `json:"full_name"`
	Position            string            `json:"position"`
	Department          string            `json:"department"`
	SessionID           string            `json:"session_id"`
	SessionTitle        string            `json:"session_title"`
	CompetencyScores    []CompetencyScore `json:"competency_scores"`
	OverallAverageScore float64           `json:"overall_average_score"`
	TotalEvaluations    int               `json:"total_evaluations"`
	AnonymousComments   []string          `json:"anonymous_comments"`
}

type CompetencyScore struct {
	CompetencyID    string   `json:"competency_id"`
	CompetencyName  string   `json:"competency_name"`
	AverageScore    float64  `json:"average_score"`
	EvaluationCount int      `json:"evaluation_count"`
	Comments        []string `json:"comments"`
}

type CompetencyAnalysisReport struct {
	SessionID         string             `json:"session_id"`
	SessionTitle      string             `json:"session_title"`
	CompetencyDetails []CompetencyDetail `json:"competency_details"`
}

type CompetencyDetail struct {
	CompetencyID        string                 `json:"competency_id"`
	CompetencyName      string                 `json:"competency_name"`
	Description         string                 `json:"description"`
	AverageScore        float64                `json:"average_score"`
	TotalEvaluations    int                    `json:"total_evaluations"`
	ScoreDistribution   []ScoreDistribution    `json:"score_distribution"`
	DepartmentBreakdown []DepartmentCompetency `json:"department_breakdown"`
}

type ScoreDistribution struct {
	Score      int     `json:"score"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type DepartmentCompetency struct {
	Department      string  `json:"department"`
	AverageScore    float64 `json:"average_score"`
	EvaluationCount int     `json:"evaluation_count"`
}

type DepartmentReport struct {
	Department         string              `json:"department"`
	SessionID          string              `json:"session_id"`
	SessionTitle       string              `json:"session_title"`
	TotalEmployees     int                 `json:"total_employees"`
	AverageScore       float64             `json:"average_score"`
	EmployeeSummaries  []EmployeeSummary   `json:"employee_summaries"`
	CompetencyAverages []CompetencyAverage `json:"competency_averages"`
}

type EmployeeSummary struct {
	EmployeeID      string  `json:"employee_id"`
	FullName        string  `json:"full_name"`
	Position        string  `json:"position"`
	AverageScore    float64 `json:"average_score"`
	EvaluationCount int     `json:"evaluation_count"`
}

// EvaluationSummary is the per-employee progress row: how much of the
// theoretical maximum coverage of this employee has been submitted.
type EvaluationSummary struct {
	EmployeeID               string  `json:"employee_id"`
	FullName                 string  `json:"full_name"`
	Department               string  `json:"department"`
	Position                 string  `json:"position"`
	AverageScore             float64 `json:"average_score"`
	CompletedEvaluations     int     `json:"completed_evaluations"`
	TotalPossibleEvaluations int     `json:"total_possible_evaluations"`
	CompletionPercentage     float64 `json:"completion_percentage"`
}
