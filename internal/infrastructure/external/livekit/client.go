package livekit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	livekit "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/johnquangdev/voice-agent/pkg/config"
)

// Client wraps the LiveKit operations a voice call needs
type Client interface {
	CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error)
	DeleteRoom(ctx context.Context, roomName string) error
	GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error)
	URL() string
}

// CreateRoomOptions holds options for creating a room
type CreateRoomOptions struct {
	MaxParticipants  int32
	EmptyTimeout     int32 // seconds
	DepartureTimeout int32 // seconds
	Metadata         string
}

// TokenOptions holds options for generating an access token
type TokenOptions struct {
	ValidFor       time.Duration
	CanPublish     bool
	CanSubscribe   bool
	CanPublishData bool
	Hidden         bool
}

// RoomInfo holds room information
type RoomInfo struct {
	Name         string
	SID          string
	CreationTime time.Time
	Metadata     string
}

// NewClient creates a LiveKit client; a mock is returned when cfg.UseMock is set
func NewClient(cfg config.LiveKitConfig) Client {
	tokens := tokenSigner{apiKey: cfg.APIKey, apiSecret: cfg.APISecret}
	if cfg.UseMock {
		return &mockClient{tokenSigner: tokens, url: cfg.URL}
	}

	return &realClient{
		tokenSigner: tokens,
		roomClient:  lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret),
		url:         cfg.URL,
	}
}

// CallRoomOptions returns the room options used for a one-to-one agent call
func CallRoomOptions(cfg config.LiveKitConfig, metadata string) *CreateRoomOptions {
	return &CreateRoomOptions{
		MaxParticipants:  2,
		EmptyTimeout:     cfg.EmptyTimeout,
		DepartureTimeout: 10,
		Metadata:         metadata,
	}
}

type tokenSigner struct {
	apiKey    string
	apiSecret string
}

func (s tokenSigner) GenerateToken(identity, roomName, participantName string, options *TokenOptions) (string, error) {
	if options == nil {
		options = &TokenOptions{
			ValidFor:       time.Hour,
			CanPublish:     true,
			CanSubscribe:   true,
			CanPublishData: true,
		}
	}

	at := auth.NewAccessToken(s.apiKey, s.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:       true,
		Room:           roomName,
		CanPublish:     &options.CanPublish,
		CanSubscribe:   &options.CanSubscribe,
		CanPublishData: &options.CanPublishData,
		Hidden:         options.Hidden,
	}

	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(participantName).
		SetValidFor(options.ValidFor)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// realClient talks to a LiveKit server
type realClient struct {
	tokenSigner
	roomClient *lksdk.RoomServiceClient
	url        string
}

func (c *realClient) URL() string { return c.url }

// CreateRoom creates a new room in LiveKit
func (c *realClient) CreateRoom(ctx context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error) {
	if options == nil {
		options = &CreateRoomOptions{MaxParticipants: 2, EmptyTimeout: 300, DepartureTimeout: 10}
	}

	room, err := c.roomClient.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:             name,
		MaxParticipants:  uint32(options.MaxParticipants),
		EmptyTimeout:     uint32(options.EmptyTimeout),
		DepartureTimeout: uint32(options.DepartureTimeout),
		Metadata:         options.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return &RoomInfo{
		Name:         room.Name,
		SID:          room.Sid,
		CreationTime: time.Unix(room.CreationTime, 0),
		Metadata:     room.Metadata,
	}, nil
}

// DeleteRoom deletes a room, disconnecting everyone still in it
func (c *realClient) DeleteRoom(ctx context.Context, roomName string) error {
	if _, err := c.roomClient.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: roomName}); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

// mockClient is used in development and tests when no LiveKit server is reachable
type mockClient struct {
	tokenSigner
	url string
}

func (m *mockClient) URL() string { return m.url }

func (m *mockClient) CreateRoom(_ context.Context, name string, options *CreateRoomOptions) (*RoomInfo, error) {
	info := &RoomInfo{
		Name:         name,
		SID:          "RM_mock_" + uuid.NewString(),
		CreationTime: time.Now(),
	}
	if options != nil {
		info.Metadata = options.Metadata
	}
	return info, nil
}

func (m *mockClient) DeleteRoom(context.Context, string) error {
	return nil
}
