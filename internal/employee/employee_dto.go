package employee

type CreateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required,max=200"`
	Email      string `json:"email" binding:"required,email,max=200"`
	Position   string `json:"position" binding:"required,max=100"`
	Department string `json:"department" binding:"required,max=100"`
	Role       string `json:"role" binding:"required,oneof=HR Admin Employee"`
}

type UpdateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required,max=200"`
	Email      string `json:"email" binding:"required,email,max=200"`
	Position   string `json:"position" binding:"required,max=100"`
	Department string `json:"department" binding:"required,max=100"`
	Role       string `json:"role" binding:"required,oneof=HR Admin Employee"`
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Role       string `json:"role"`
	CreatedAt  string `json:"created_at"`
}
