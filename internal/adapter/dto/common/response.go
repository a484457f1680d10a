package common

// ErrorResponse is the bare error body of the calls, voice and summarize endpoints
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// StatusResponse is a minimal acknowledgement
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthResponse is returned by the liveness endpoints
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	ActiveCalls int    `json:"activeCalls"`
}
