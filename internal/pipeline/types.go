package pipeline

import (
	"context"
	"io"
)

// Transcriber converts one uploaded audio clip to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Assistant produces a free-text reply for a user query.
type Assistant interface {
	Respond(ctx context.Context, query string) (string, error)
}

// Speaker synthesizes a lazy audio stream for the given text.
type Speaker interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// AudioStore optionally persists the raw clip and returns its stored path.
type AudioStore interface {
	Configured() bool
	Upload(ctx context.Context, objectKey, contentType string, body []byte) (string, error)
}
