// Package rooms wraps the LiveKit server APIs used for real-time practice
// rounds: room lifecycle, participant listing, join tokens and webhook
// validation.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"
	"github.com/livekit/protocol/livekit"
	"github.com/livekit/protocol/webhook"
	lksdk "github.com/livekit/server-sdk-go/v2"
)

// ErrNotConfigured is returned by every operation when the LiveKit
// credentials are absent. The HTTP layer maps it to 503.
var ErrNotConfigured = errors.New("rooms: livekit not configured")

// DefaultEmptyTimeout is how long an empty room stays alive.
const DefaultEmptyTimeout = 5 * time.Minute

// DefaultTokenTTL is the join-token lifetime when the caller does not ask
// for one.
const DefaultTokenTTL = time.Hour

// RoomInfo is the transport-friendly view of a LiveKit room.
type RoomInfo struct {
	SID             string `json:"sid"`
	Name            string `json:"name"`
	NumParticipants int    `json:"num_participants"`
	CreationTime    int64  `json:"creation_time"`
}

// ParticipantInfo is the transport-friendly view of a room participant.
type ParticipantInfo struct {
	SID      string `json:"sid"`
	Identity string `json:"identity"`
	Name     string `json:"name"`
	State    string `json:"state"`
	JoinedAt int64  `json:"joined_at"`
}

// TokenRequest carries the caller's join-token parameters. Zero values
// fall back to service defaults.
type TokenRequest struct {
	Room     string
	Identity string
	Name     string
	Metadata string
	TTL      time.Duration

	CanPublish     bool
	CanSubscribe   bool
	CanPublishData bool
}

// Service talks to one LiveKit deployment. The zero value is an
// unconfigured service whose operations all fail with ErrNotConfigured.
type Service struct {
	host      string
	apiKey    string
	apiSecret string
	client    *lksdk.RoomServiceClient
}

// NewService builds a room service facade. Missing credentials produce a
// service that reports itself unconfigured rather than an error, so the
// server can boot without LiveKit.
func NewService(host, apiKey, apiSecret string) *Service {
	s := &Service{host: host, apiKey: apiKey, apiSecret: apiSecret}
	if s.Configured() {
		s.client = lksdk.NewRoomServiceClient(host, apiKey, apiSecret)
	}
	return s
}

// Configured reports whether LiveKit credentials are present.
func (s *Service) Configured() bool {
	return s.host != "" && s.apiKey != "" && s.apiSecret != ""
}

// CreateRoom creates (or returns the existing) room with the given name.
func (s *Service) CreateRoom(ctx context.Context, name string, emptyTimeout time.Duration) (*RoomInfo, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	if emptyTimeout <= 0 {
		emptyTimeout = DefaultEmptyTimeout
	}
	room, err := s.client.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:         name,
		EmptyTimeout: uint32(emptyTimeout / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("rooms: create room %q: %w", name, err)
	}

	// Re-list so the returned info reflects server state, not just the
	// create response.
	resp, err := s.client.ListRooms(ctx, &livekit.ListRoomsRequest{Names: []string{name}})
	if err == nil {
		for _, r := range resp.Rooms {
			if r.Name == name {
				info := roomInfo(r)
				return &info, nil
			}
		}
	}
	info := roomInfo(room)
	return &info, nil
}

// DeleteRoom tears down the named room and disconnects its participants.
func (s *Service) DeleteRoom(ctx context.Context, name string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if _, err := s.client.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: name}); err != nil {
		return fmt.Errorf("rooms: delete room %q: %w", name, err)
	}
	return nil
}

// ListRooms returns every active room on the deployment.
func (s *Service) ListRooms(ctx context.Context) ([]RoomInfo, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	resp, err := s.client.ListRooms(ctx, &livekit.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("rooms: list rooms: %w", err)
	}
	items := make([]RoomInfo, 0, len(resp.Rooms))
	for _, r := range resp.Rooms {
		items = append(items, roomInfo(r))
	}
	return items, nil
}

// ListParticipants returns the participants currently in the named room.
func (s *Service) ListParticipants(ctx context.Context, room string) ([]ParticipantInfo, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	resp, err := s.client.ListParticipants(ctx, &livekit.ListParticipantsRequest{Room: room})
	if err != nil {
		return nil, fmt.Errorf("rooms: list participants for %q: %w", room, err)
	}
	items := make([]ParticipantInfo, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		items = append(items, ParticipantInfo{
			SID:      p.Sid,
			Identity: p.Identity,
			Name:     p.Name,
			State:    p.State.String(),
			JoinedAt: p.JoinedAt,
		})
	}
	return items, nil
}

// CreateToken mints a join token. An empty identity gets a generated one
// so anonymous callers can still join.
func (s *Service) CreateToken(req TokenRequest) (string, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return "", ErrNotConfigured
	}
	identity := req.Identity
	if identity == "" {
		identity = "guest-" + uuid.NewString()
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     req.Room,
	}
	grant.SetCanPublish(req.CanPublish)
	grant.SetCanSubscribe(req.CanSubscribe)
	grant.SetCanPublishData(req.CanPublishData)

	at := auth.NewAccessToken(s.apiKey, s.apiSecret).
		SetIdentity(identity).
		SetName(req.Name).
		SetValidFor(ttl).
		SetVideoGrant(grant)
	if req.Metadata != "" {
		at.SetMetadata(req.Metadata)
	}

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("rooms: sign token: %w", err)
	}
	return token, nil
}

// ReceiveWebhook authenticates and decodes a LiveKit webhook delivery.
func (s *Service) ReceiveWebhook(r *http.Request) (*livekit.WebhookEvent, error) {
	if s.apiKey == "" || s.apiSecret == "" {
		return nil, ErrNotConfigured
	}
	event, err := webhook.ReceiveWebhookEvent(r, auth.NewSimpleKeyProvider(s.apiKey, s.apiSecret))
	if err != nil {
		return nil, fmt.Errorf("rooms: verify webhook: %w", err)
	}
	return event, nil
}

func roomInfo(r *livekit.Room) RoomInfo {
	return RoomInfo{
		SID:             r.Sid,
		Name:            r.Name,
		NumParticipants: int(r.NumParticipants),
		CreationTime:    r.CreationTime,
	}
}
