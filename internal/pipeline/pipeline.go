// Package pipeline orchestrates one voice interaction turn: transcribe,
// check the wake phrase, persist, optionally ask the assistant, synthesize
// the reply and hand a lazy audio stream back to the transport layer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ceddyai/golf-voice/internal/store"
	"github.com/ceddyai/golf-voice/internal/tts"
	"github.com/ceddyai/golf-voice/internal/wake"
)

// ErrSessionNotFound terminates a turn before anything is persisted. It is
// the only error ProcessTurn surfaces; every provider failure is absorbed
// into a degraded result instead.
var ErrSessionNotFound = errors.New("pipeline: session not found")

// ApologyReply is spoken when the assistant call fails outright.
const ApologyReply = "I'm sorry, I encountered an error while processing your request."

// Turn is the outcome of one processed interaction. Audio is lazy; the
// caller streams and closes it. Turns without a wake word carry an empty
// stream.
type Turn struct {
	Transcript store.Transcript
	Audio      io.ReadCloser
}

// Pipeline owns the ordering, partial-commit and branching rules for one
// user utterance. Concurrent turns are not serialized, not even per
// session: each transcript row is only ever written by the request that
// created it, so interleaved turns stay individually consistent.
type Pipeline struct {
	store      *store.Store
	stt        Transcriber
	assistant  Assistant
	tts        Speaker
	audio      AudioStore // may be nil
	wakePhrase string
	log        *logrus.Logger
}

// New wires the pipeline's collaborators. audioStore may be nil when no
// clip storage is configured.
func New(st *store.Store, transcriber Transcriber, asst Assistant, speaker Speaker, audioStore AudioStore, wakePhrase string, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		store:      st,
		stt:        transcriber,
		assistant:  asst,
		tts:        speaker,
		audio:      audioStore,
		wakePhrase: wakePhrase,
		log:        log,
	}
}

// ProcessTurn runs the interaction state machine for one uploaded clip.
//
// The transcript row is created and committed before any assistant work:
// if everything downstream fails, the turn is still durably recorded as
// heard-but-not-answered.
func (p *Pipeline) ProcessTurn(ctx context.Context, sessionToken string, audio []byte) (*Turn, error) {
	sess, err := p.store.GetSessionByToken(ctx, sessionToken, true)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("pipeline: resolve session: %w", err)
	}

	query, err := p.stt.Transcribe(ctx, audio)
	if err != nil {
		// Degrade to an empty transcript; the turn continues.
		p.log.WithError(err).WithField("session", sessionToken).Warn("transcription failed, continuing with empty text")
		query = ""
	}

	containsWake := wake.Detect(query, p.wakePhrase)

	audioPath := p.stageAudio(ctx, sessionToken, audio)

	transcript, err := p.store.CreateTranscript(ctx, sess.ID, query, containsWake, audioPath)
	if err != nil {
		// The durability checkpoint is the one step that must not degrade.
		return nil, fmt.Errorf("pipeline: persist transcript: %w", err)
	}

	if !containsWake {
		return &Turn{Transcript: transcript, Audio: tts.Empty()}, nil
	}

	reply, err := p.assistant.Respond(ctx, query)
	if err != nil {
		p.log.WithError(err).WithField("session", sessionToken).Warn("assistant call failed, substituting apology")
		reply = ApologyReply
	}

	stream, err := p.tts.Synthesize(ctx, reply)
	if err != nil {
		p.log.WithError(err).WithField("session", sessionToken).Warn("speech synthesis failed, returning silent turn")
		stream = tts.Empty()
	}

	updated, err := p.store.SetAssistantResponse(ctx, transcript.ID, reply)
	if err != nil {
		// The query text is already committed; losing the reply column is
		// preferable to dropping the audio on the floor.
		p.log.WithError(err).WithField("transcript", transcript.ID).Error("failed to attach assistant response")
		transcript.AssistantResponse = &reply
	} else {
		transcript = updated
	}

	return &Turn{Transcript: transcript, Audio: stream}, nil
}

// stageAudio best-effort uploads the raw clip. Never fails the turn.
func (p *Pipeline) stageAudio(ctx context.Context, sessionToken string, audio []byte) *string {
	if p.audio == nil || !p.audio.Configured() || len(audio) == 0 {
		return nil
	}
	key := fmt.Sprintf("turns/%s/%d.wav", sessionToken, time.Now().UTC().UnixNano())
	path, err := p.audio.Upload(ctx, key, "audio/wav", audio)
	if err != nil {
		p.log.WithError(err).WithField("session", sessionToken).Warn("audio upload failed, transcript will have no clip reference")
		return nil
	}
	return &path
}
