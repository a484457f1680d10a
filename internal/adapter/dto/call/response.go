package call

import "time"

// CallResponse represents a stored call in responses
type CallResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	Summary   string                 `json:"summary"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}
