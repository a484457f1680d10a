package dto

// SummarizeRequest is the body of POST /v1/summarize
type SummarizeRequest struct {
	Prompt string `json:"prompt" validate:"required,notblank"`
}

// SummarizeResponse is the success body of POST /v1/summarize
type SummarizeResponse struct {
	Summary string `json:"summary"`
}
