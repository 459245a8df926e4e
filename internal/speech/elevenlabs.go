package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ElevenLabsSynthesizer is an alternate hosted TTS backend.
type ElevenLabsSynthesizer struct {
	HTTPClient *http.Client
	APIKey     string
	VoiceID    string
	Host       string
}

func NewElevenLabsSynthesizer(apiKey, voiceID string) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		APIKey:     apiKey,
		VoiceID:    voiceID,
		Host:       "api.elevenlabs.io",
	}
}

func (e *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if e.APIKey == "" || e.VoiceID == "" {
		return nil, fmt.Errorf("elevenlabs: api key or voice id missing")
	}
	u := url.URL{
		Scheme: "https",
		Host:   e.Host,
		Path:   "/v1/text-to-speech/" + e.VoiceID,
	}
	q := u.Query()
	q.Set("output_format", "mp3_44100_128")
	u.RawQuery = q.Encode()

	body := map[string]any{
		"model_id": "eleven_flash_v2_5",
		"text":     text,
		"voice_settings": map[string]any{
			"stability":         0.4,
			"similarity_boost":  0.7,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	}
	buf, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs status=%d body=%s", resp.StatusCode, string(b))
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs read error: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("elevenlabs returned no audio")
	}
	return audio, nil
}
