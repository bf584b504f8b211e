package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Environment selects runtime defaults (debug flag, log formatter).
type Environment string

const (
	EnvProduction Environment = "production"
	EnvStaging    Environment = "staging"
	EnvDevelop    Environment = "develop"
	EnvTest       Environment = "test"
)

// Config holds application configuration.
type Config struct {
	Environment Environment
	Debug       bool

	HTTPAddress string
	DatabaseURL string

	DocsUsername string
	DocsPassword string
	CORSOrigins  string

	// OpenAI powers both transcription and the assistant conversation.
	OpenAIKey         string
	OpenAIAssistantID string

	// ElevenLabs is the primary speech synthesizer, Deepgram the fallback.
	ElevenLabsKey     string
	ElevenLabsVoiceID string
	DeepgramKey       string

	// LiveKit room provisioning. All three must be set for the facade to work.
	LiveKitAPIKey    string
	LiveKitAPISecret string
	LiveKitURL       string

	// Supabase storage for raw turn audio. Optional.
	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	WakePhrase string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads environment variables and returns Config with sane defaults.
// Missing optional provider credentials degrade the matching feature at
// request time; they never prevent startup.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file loaded")
	}

	env := Environment(getenv("ENVIRONMENT", string(EnvDevelop)))
	switch env {
	case EnvProduction, EnvStaging, EnvDevelop, EnvTest:
	default:
		log.Printf("config: unknown ENVIRONMENT %q, defaulting to develop", env)
		env = EnvDevelop
	}
	debug := env == EnvDevelop || env == EnvTest
	if v := os.Getenv("DEBUG"); v != "" {
		debug = v == "1" || v == "true"
	}

	cfg := Config{
		Environment: env,
		Debug:       debug,

		HTTPAddress: getenv("HTTP_ADDRESS", ":8080"),
		DatabaseURL: getenv("DATABASE_URL", "file:ceddy.sqlite?_pragma=journal_mode(WAL)"),

		DocsUsername: getenv("DOCS_USERNAME", "docs_user"),
		DocsPassword: getenv("DOCS_PASSWORD", "simple_password"),
		CORSOrigins:  getenv("CORS_ORIGINS", "*"),

		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIAssistantID: os.Getenv("OPENAI_ASSISTANT_ID"),

		ElevenLabsKey:     os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: getenv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),
		DeepgramKey:       os.Getenv("DEEPGRAM_API_KEY"),

		LiveKitAPIKey:    os.Getenv("LIVEKIT_API_KEY"),
		LiveKitAPISecret: os.Getenv("LIVEKIT_API_SECRET"),
		LiveKitURL:       os.Getenv("LIVEKIT_URL"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseBucket:     getenv("SUPABASE_AUDIO_BUCKET", "turn-audio"),

		WakePhrase: getenv("WAKE_WORD", "Hey Ceddy"),
	}

	if cfg.OpenAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - transcription and assistant replies will degrade to silence")
	}
	if cfg.ElevenLabsKey == "" {
		log.Println("Warning: ELEVENLABS_API_KEY not set - primary TTS disabled, fallback only")
	}
	if cfg.DeepgramKey == "" {
		log.Println("Warning: DEEPGRAM_API_KEY not set - fallback TTS disabled")
	}
	if cfg.LiveKitAPIKey == "" || cfg.LiveKitAPISecret == "" || cfg.LiveKitURL == "" {
		log.Println("Warning: LiveKit credentials incomplete - room endpoints will return 503")
	}

	log.Printf("config: ENVIRONMENT=%s HTTP_ADDRESS=%s", cfg.Environment, cfg.HTTPAddress)
	return cfg
}
