package presenter

import (
	callDTO "github.com/johnquangdev/voice-agent/internal/adapter/dto/call"
	voiceDTO "github.com/johnquangdev/voice-agent/internal/adapter/dto/voice"
	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/usecase/voicecall"
)

// ToCallResponse converts a Call entity to its DTO
func ToCallResponse(c *entities.Call) *callDTO.CallResponse {
	if c == nil {
		return nil
	}
	resp := &callDTO.CallResponse{
		ID:        c.ID.String(),
		UserID:    c.UserID,
		Summary:   c.Summary,
		CreatedAt: c.CreatedAt,
	}
	if len(c.Metadata) > 0 {
		resp.Metadata = map[string]interface{}(c.Metadata)
	}
	return resp
}

// ToCallListResponse converts calls to DTOs, never returning nil
func ToCallListResponse(calls []*entities.Call) []*callDTO.CallResponse {
	out := make([]*callDTO.CallResponse, 0, len(calls))
	for _, c := range calls {
		out = append(out, ToCallResponse(c))
	}
	return out
}

// ToStartSessionResponse converts a started call to its DTO
func ToStartSessionResponse(r *voicecall.StartResult) *voiceDTO.StartSessionResponse {
	return &voiceDTO.StartSessionResponse{
		CallID:   r.CallID.String(),
		RoomName: r.RoomName,
		URL:      r.URL,
		Token:    r.Token,
	}
}

// ToLeaveResponse converts an orchestrator outcome to its DTO
func ToLeaveResponse(o *voicecall.Outcome) *voiceDTO.LeaveResponse {
	return &voiceDTO.LeaveResponse{
		CallID:        o.CallID.String(),
		State:         string(o.State),
		Summary:       o.Summary,
		SummarySource: string(o.Source),
		Call:          ToCallResponse(o.Call),
		Warning:       o.Warning,
	}
}
