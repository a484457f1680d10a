package call

// CreateCallRequest represents the request to store a call summary
type CreateCallRequest struct {
	UserID  string `json:"userId" validate:"required,notblank"`
	Summary string `json:"summary" validate:"required,notblank"`
}
