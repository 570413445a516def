package competency

type CreateCompetencyRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	Weight      int    `json:"weight" binding:"omitempty,min=1,max=100"`
}

type UpdateCompetencyRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	Weight      int    `json:"weight" binding:"omitempty,min=1,max=100"`
}

type CompetencyResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}
