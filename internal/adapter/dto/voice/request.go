package voice

// TranscriptRequest carries one transcript fragment of an active call
type TranscriptRequest struct {
	Text     string `json:"text" validate:"required"`
	Producer string `json:"producer,omitempty" validate:"omitempty,max=255"`
}
