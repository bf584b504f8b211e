package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ElevenLabsClient streams speech from the ElevenLabs HTTP streaming
// endpoint. Primary synthesizer.
type ElevenLabsClient struct {
	APIKey     string
	VoiceID    string
	BaseURL    string
	HTTPClient *http.Client
}

func NewElevenLabsClient(apiKey, voiceID string) *ElevenLabsClient {
	return &ElevenLabsClient{
		APIKey:  apiKey,
		VoiceID: voiceID,
		BaseURL: "https://api.elevenlabs.io",
		// No client timeout: the body is a long-lived stream, cancellation
		// comes from the request context.
		HTTPClient: &http.Client{Timeout: 0},
	}
}

// Synthesize requests an MP3 stream for the text and hands back the
// response body unread. Closing the stream aborts the download.
func (e *ElevenLabsClient) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if e.APIKey == "" || e.VoiceID == "" {
		return nil, fmt.Errorf("elevenlabs: api key or voice id missing")
	}

	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: bad base url: %w", err)
	}
	u.Path = "/v1/text-to-speech/" + e.VoiceID + "/stream"
	q := u.Query()
	q.Set("output_format", "mp3_44100_128")
	u.RawQuery = q.Encode()

	body := map[string]any{
		"model_id": "eleven_monolingual_v1",
		"text":     text,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	}
	buf, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("elevenlabs: status=%d body=%s", resp.StatusCode, string(b))
	}
	return resp.Body, nil
}
