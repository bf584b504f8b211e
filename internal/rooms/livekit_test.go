package rooms

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUnconfiguredService(t *testing.T) {
	s := NewService("", "", "")
	if s.Configured() {
		t.Fatalf("expected unconfigured service")
	}

	ctx := context.Background()
	if _, err := s.CreateRoom(ctx, "r", 0); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("CreateRoom: expected ErrNotConfigured, got %v", err)
	}
	if err := s.DeleteRoom(ctx, "r"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("DeleteRoom: expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.ListRooms(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("ListRooms: expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.ListParticipants(ctx, "r"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("ListParticipants: expected ErrNotConfigured, got %v", err)
	}
	if _, err := s.CreateToken(TokenRequest{Room: "r"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("CreateToken: expected ErrNotConfigured, got %v", err)
	}
}

func TestCreateToken_SignsJWT(t *testing.T) {
	s := NewService("https://lk.example.com", "api-key", "secret-at-least-32-characters-long")

	token, err := s.CreateToken(TokenRequest{
		Room:           "range-session",
		Identity:       "player-1",
		Name:           "Player One",
		TTL:            30 * time.Minute,
		CanPublish:     true,
		CanSubscribe:   true,
		CanPublishData: true,
	})
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected a three-part JWT, got %q", token)
	}
}

func TestCreateToken_GeneratesIdentity(t *testing.T) {
	s := NewService("https://lk.example.com", "api-key", "secret-at-least-32-characters-long")

	t1, err := s.CreateToken(TokenRequest{Room: "r", CanSubscribe: true})
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	t2, err := s.CreateToken(TokenRequest{Room: "r", CanSubscribe: true})
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	if t1 == t2 {
		t.Fatalf("anonymous tokens should carry distinct generated identities")
	}
}
