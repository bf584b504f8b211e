package tts

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/websocket/interfaces"
	clientinterfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces/v1"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/speak"
	"github.com/sirupsen/logrus"
)

// DeepgramClient synthesizes speech over the Deepgram speak WebSocket.
// Fallback synthesizer; emits linear16 PCM at 48kHz.
type DeepgramClient struct {
	apiKey     string
	model      string
	sampleRate int
	encoding   string

	// Log receives non-fatal session events. Optional.
	Log *logrus.Logger
}

func NewDeepgramClient(apiKey, model string) *DeepgramClient {
	if model == "" {
		model = "aura-2-thalia-en"
	}
	return &DeepgramClient{apiKey: apiKey, model: model, sampleRate: 48000, encoding: "linear16"}
}

// Synthesize connects, speaks the text and bridges the binary frames into
// a pipe. The WS session is torn down once audio goes idle, the overall
// deadline passes, or the reader is closed.
func (d *DeepgramClient) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("deepgram: API key missing")
	}
	if text == "" {
		return Empty(), nil
	}

	options := &clientinterfaces.WSSpeakOptions{
		Model:      d.model,
		Encoding:   d.encoding,
		SampleRate: d.sampleRate,
	}

	pr, pw := io.Pipe()
	var lastRecvUnix int64
	var seenAudio int32

	cb := &speakCallback{onBinary: func(data []byte) error {
		if len(data) == 0 {
			return nil
		}
		atomic.StoreInt64(&lastRecvUnix, time.Now().UnixNano())
		atomic.StoreInt32(&seenAudio, 1)
		_, err := pw.Write(data)
		return err
	}}

	dg, err := speak.NewWSUsingCallback(ctx, d.apiKey, &clientinterfaces.ClientOptions{}, options, cb)
	if err != nil {
		return nil, fmt.Errorf("deepgram: create ws client: %w", err)
	}
	if ok := dg.Connect(); !ok {
		return nil, fmt.Errorf("deepgram: connect failed")
	}

	go func() {
		defer dg.Stop()

		if err := dg.SpeakWithText(text); err != nil {
			pw.CloseWithError(fmt.Errorf("deepgram: speak text: %w", err))
			return
		}
		if err := dg.Flush(); err != nil && d.Log != nil {
			d.Log.WithError(err).Warn("deepgram: flush failed")
		}

		// The speak WS has no end-of-stream frame; treat a quiet window
		// after the first audio as completion.
		idleWindow := 400 * time.Millisecond
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		deadline := time.Now().Add(12 * time.Second)
		for {
			select {
			case <-ctx.Done():
				pw.CloseWithError(ctx.Err())
				return
			case <-ticker.C:
				if atomic.LoadInt32(&seenAudio) == 1 {
					last := time.Unix(0, atomic.LoadInt64(&lastRecvUnix))
					if time.Since(last) > idleWindow {
						pw.Close()
						return
					}
				}
				if time.Now().After(deadline) {
					pw.Close()
					return
				}
			}
		}
	}()

	return pr, nil
}

type speakCallback struct{ onBinary func([]byte) error }

func (s *speakCallback) Open(*msginterfaces.OpenResponse) error         { return nil }
func (s *speakCallback) Metadata(*msginterfaces.MetadataResponse) error { return nil }
func (s *speakCallback) Flush(*msginterfaces.FlushedResponse) error     { return nil }
func (s *speakCallback) Clear(*msginterfaces.ClearedResponse) error     { return nil }
func (s *speakCallback) Close(*msginterfaces.CloseResponse) error       { return nil }
func (s *speakCallback) Warning(*msginterfaces.WarningResponse) error   { return nil }
func (s *speakCallback) Error(*msginterfaces.ErrorResponse) error       { return nil }
func (s *speakCallback) UnhandledEvent([]byte) error                    { return nil }
func (s *speakCallback) Binary(byMsg []byte) error {
	if s.onBinary != nil {
		return s.onBinary(byMsg)
	}
	return nil
}
