// Package stt transcribes raw audio through the OpenAI Whisper API.
package stt

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client is a Whisper transcription adapter. Failures are returned to the
// caller; the pipeline decides whether to degrade the turn.
type Client struct {
	client openai.Client
}

// New creates a transcription client. Extra request options are mainly
// for tests (base URL overrides).
func New(apiKey string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Client{client: openai.NewClient(opts...)}
}

// Transcribe sends the uploaded clip to Whisper and returns the text.
// The payload is staged in memory, never on disk.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("stt: empty audio payload")
	}
	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(audio), "utterance.wav", "audio/wav"),
		Model:    openai.AudioModelWhisper1,
		Language: openai.String("en"),
	})
	if err != nil {
		return "", fmt.Errorf("stt: transcription request: %w", err)
	}
	return resp.Text, nil
}
