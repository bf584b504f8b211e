// Package tts converts assistant replies to a lazy audio byte stream.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Speaker synthesizes speech for the given text. The returned stream is
// lazy; closing it releases any in-flight provider resources.
type Speaker interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// Empty returns a zero-byte audio stream.
func Empty() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(nil))
}

// Chain is the two-tier provider policy: try Primary, and on any primary
// failure engage Fallback unconditionally. One retry per call, no backoff.
type Chain struct {
	Primary  Speaker
	Fallback Speaker
	Log      *logrus.Logger
}

func (c *Chain) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return Empty(), nil
	}
	rc, err := c.Primary.Synthesize(ctx, text)
	if err == nil {
		return rc, nil
	}
	if c.Log != nil {
		c.Log.WithError(err).Warn("tts: primary synthesizer failed, engaging fallback")
	}
	rc, ferr := c.Fallback.Synthesize(ctx, text)
	if ferr != nil {
		return nil, fmt.Errorf("tts: primary: %v; fallback: %w", err, ferr)
	}
	return rc, nil
}
