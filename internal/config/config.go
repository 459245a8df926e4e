package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "config")

// TTS backend selection.
const (
	TTSProviderOpenAI     = "openai"
	TTSProviderElevenLabs = "elevenlabs"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress string `env:"HTTP_ADDRESS" envDefault:":8080"`

	// Hosted chat/speech API
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	ChatModel     string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o"`
	WhisperModel  string `env:"OPENAI_WHISPER_MODEL" envDefault:"whisper-1"`
	TTSModel      string `env:"OPENAI_TTS_MODEL" envDefault:"tts-1"`
	TTSVoice      string `env:"OPENAI_TTS_VOICE" envDefault:"nova"`

	// Hosted-call hardening
	LLMTimeout time.Duration `env:"LLM_TIMEOUT" envDefault:"15s"`
	LLMRetries int           `env:"LLM_RETRIES" envDefault:"2"`

	// Capture
	MaxRecordingSeconds int `env:"MAX_RECORDING_SECONDS" envDefault:"20"`

	// Alternate TTS backend
	TTSProvider       string `env:"TTS_PROVIDER" envDefault:"openai"`
	ElevenLabsKey     string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsVoiceID string `env:"ELEVENLABS_VOICE_ID"`

	// Transcript archival (optional)
	SupabaseURL    string `env:"SUPABASE_URL"`
	SupabaseKey    string `env:"SUPABASE_SERVICE_ROLE_KEY"`
	SupabaseBucket string `env:"SUPABASE_BUCKET" envDefault:"session-transcripts"`

	// Session
	StudentName string `env:"STUDENT_NAME" envDefault:"Michael"`
}

// MaxRecordingDuration returns the capture ceiling as a duration.
func (c Config) MaxRecordingDuration() time.Duration {
	if c.MaxRecordingSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.MaxRecordingSeconds) * time.Second
}

// ArchiveEnabled reports whether transcript archival is configured.
func (c Config) ArchiveEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// Load reads .env and environment variables into a Config. Missing
// credentials warn here and surface per-call; they never abort startup.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - chat, transcription and speech will not work")
	}
	if cfg.TTSProvider == TTSProviderElevenLabs && cfg.ElevenLabsKey == "" {
		log.Println("Warning: TTS_PROVIDER=elevenlabs but ELEVENLABS_API_KEY not set - speech will not work")
	}
	if !cfg.ArchiveEnabled() {
		log.Println("transcript archival disabled (SUPABASE_URL/SUPABASE_SERVICE_ROLE_KEY not set)")
	}

	log.Printf("config: HTTP_ADDRESS=%s chat_model=%s tts=%s", cfg.HTTPAddress, cfg.ChatModel, cfg.TTSProvider)
	return cfg
}
