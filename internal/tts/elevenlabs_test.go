package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestElevenLabs_NoCredentials(t *testing.T) {
	e := NewElevenLabsClient("", "")
	if _, err := e.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error when credentials missing")
	}
}

func TestElevenLabs_StreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xi-api-key") != "key" {
			t.Errorf("missing api key header")
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if body["text"] != "hello" {
			t.Errorf("unexpected text: %v", body["text"])
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	e := NewElevenLabsClient("key", "voice")
	e.BaseURL = srv.URL
	rc, err := e.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "mp3-bytes" {
		t.Fatalf("unexpected audio: %q", b)
	}
}

func TestElevenLabs_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	e := NewElevenLabsClient("key", "voice")
	e.BaseURL = srv.URL
	if _, err := e.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}
