package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ceddyai/golf-voice/internal/assistant"
	"github.com/ceddyai/golf-voice/internal/audiostore"
	"github.com/ceddyai/golf-voice/internal/config"
	"github.com/ceddyai/golf-voice/internal/httpserver"
	"github.com/ceddyai/golf-voice/internal/logger"
	"github.com/ceddyai/golf-voice/internal/pipeline"
	"github.com/ceddyai/golf-voice/internal/rooms"
	"github.com/ceddyai/golf-voice/internal/store"
	"github.com/ceddyai/golf-voice/internal/stt"
	"github.com/ceddyai/golf-voice/internal/tts"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg)

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer st.Close()

	transcriber := stt.New(cfg.OpenAIKey)
	asst := assistant.New(cfg.OpenAIKey, cfg.OpenAIAssistantID)
	deepgram := tts.NewDeepgramClient(cfg.DeepgramKey, "")
	deepgram.Log = log
	speaker := &tts.Chain{
		Primary:  tts.NewElevenLabsClient(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID),
		Fallback: deepgram,
		Log:      log,
	}
	audio := audiostore.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)

	turns := pipeline.New(st, transcriber, asst, speaker, audio, cfg.WakePhrase, log)
	roomSvc := rooms.NewService(cfg.LiveKitURL, cfg.LiveKitAPIKey, cfg.LiveKitAPISecret)

	e := httpserver.New(cfg.CORSOrigins)
	h := &httpserver.Handlers{
		Store:        st,
		Turns:        turns,
		Rooms:        roomSvc,
		Log:          log,
		DocsUsername: cfg.DocsUsername,
		DocsPassword: cfg.DocsPassword,
	}
	h.Register(e)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.HTTPAddress).Info("server listening")
		serverErrors <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
		_ = server.Close()
	}
}
