package anonymity

import "time"

// AnonymousCodeResponse is handed to the evaluator who requested the code.
// It is the only DTO that ever carries a code value.
type AnonymousCodeResponse struct {
	SessionID string    `json:"session_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// MappingResponse is the HR view of issued codes for a session. The
// evaluator is intentionally absent; nothing outside this package may
// learn who holds which code.
type MappingResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}
