package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

// OpenAITranscriber sends finalized audio clips to the hosted Whisper API.
type OpenAITranscriber struct {
	client *openai.Client
	apiKey string
	model  string
}

func NewOpenAITranscriber(apiKey, baseURL, model string) *OpenAITranscriber {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{client: openai.NewClientWithConfig(cfg), apiKey: apiKey, model: model}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if t.apiKey == "" {
		return "", fmt.Errorf("openai api key missing")
	}
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "recording.webm",
		Language: "en",
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// OpenAISynthesizer converts reply text to speech via the hosted TTS API.
type OpenAISynthesizer struct {
	client *openai.Client
	apiKey string
	model  string
	voice  string
}

func NewOpenAISynthesizer(apiKey, baseURL, model, voice string) *OpenAISynthesizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceNova)
	}
	return &OpenAISynthesizer{client: openai.NewClientWithConfig(cfg), apiKey: apiKey, model: model, voice: voice}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("openai api key missing")
	}
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          1.0,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("reading speech response: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech response was empty")
	}
	return audio, nil
}
