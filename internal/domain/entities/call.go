package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Call is the persisted record of one finished voice call
type Call struct {
	ID        uuid.UUID         `json:"id" gorm:"primaryKey;size:36"`
	UserID    string            `json:"userId" gorm:"size:255;not null;index:idx_calls_user_created,priority:1"`
	Summary   string            `json:"summary" gorm:"type:text;not null"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt" gorm:"autoCreateTime;index:idx_calls_user_created,priority:2"`
}

// TableName specifies the table name for GORM
func (Call) TableName() string {
	return "calls"
}

// BeforeCreate assigns the identifier when the caller left it empty
func (c *Call) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NewCall creates a call record for a user
func NewCall(userID, summary string) *Call {
	return &Call{
		ID:      uuid.New(),
		UserID:  userID,
		Summary: summary,
	}
}

// CallMetadata describes how a call record was produced
type CallMetadata struct {
	RoomName        string
	FragmentCount   int
	SummarySource   string
	DurationSeconds int64
}

// ToJSONMap converts metadata into the stored JSON column
func (m CallMetadata) ToJSONMap() datatypes.JSONMap {
	return datatypes.JSONMap{
		"roomName":        m.RoomName,
		"fragmentCount":   m.FragmentCount,
		"summarySource":   m.SummarySource,
		"durationSeconds": m.DurationSeconds,
	}
}

// CallState is a step of the end-of-call lifecycle
type CallState string

const (
	CallStateActive        CallState = "active"
	CallStateDisconnecting CallState = "disconnecting"
	CallStateSummarizing   CallState = "summarizing"
	CallStatePersisting    CallState = "persisting"
	CallStateDone          CallState = "done"
)

// IsTerminal reports whether no further transitions are possible
func (s CallState) IsTerminal() bool {
	return s == CallStateDone
}
