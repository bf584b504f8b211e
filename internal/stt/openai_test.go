package stt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/openai/openai-go/option"
)

func TestTranscribe_ReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio/transcriptions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hey ceddy what club should I use"}`))
	}))
	defer srv.Close()

	c := New("key", option.WithBaseURL(srv.URL+"/"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := c.Transcribe(ctx, []byte{0x52, 0x49, 0x46, 0x46})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got != "hey ceddy what club should I use" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestTranscribe_EmptyPayload(t *testing.T) {
	c := New("key")
	if _, err := c.Transcribe(context.Background(), nil); err == nil {
		t.Fatalf("expected error on empty payload")
	}
}

func TestTranscribe_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer srv.Close()

	c := New("key", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := c.Transcribe(ctx, []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected provider error to surface")
	}
}
