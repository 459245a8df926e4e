package archive

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/supabase-go"

	"github.com/PratikJH153/OrbitAI/internal/conversation"
)

var log = logrus.WithField("component", "archive")

// Archiver persists a session transcript when the session closes.
type Archiver interface {
	SaveTranscript(messages []conversation.Message) error
}

// SupabaseArchiver uploads transcripts to a Supabase storage bucket.
type SupabaseArchiver struct {
	client *supabase.Client
	bucket string
}

// NewSupabaseArchiver connects to Supabase storage.
func NewSupabaseArchiver(url, serviceRoleKey, bucket string) (*SupabaseArchiver, error) {
	client, err := supabase.NewClient(url, serviceRoleKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &SupabaseArchiver{client: client, bucket: bucket}, nil
}

// SaveTranscript renders the dialogue as text and uploads it under a
// date-stamped key.
func (a *SupabaseArchiver) SaveTranscript(messages []conversation.Message) error {
	if len(messages) == 0 {
		return nil
	}
	key := fmt.Sprintf("sessions/%s-%s.txt", time.Now().Format("2006-01-02"), uuid.NewString())
	body := Render(messages)
	_, err := a.client.Storage.UploadFile(a.bucket, key, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("uploading transcript: %w", err)
	}
	log.Printf("transcript archived: %s (%d messages)", key, len(messages))
	return nil
}

// Render formats a dialogue as role-labelled lines.
func Render(messages []conversation.Message) string {
	var b strings.Builder
	for _, m := range messages {
		b.WriteString("[")
		b.WriteString(strings.ToUpper(m.Role))
		b.WriteString("] ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// Disabled is an Archiver that drops transcripts. Used when archival is
// not configured.
type Disabled struct{}

func (Disabled) SaveTranscript([]conversation.Message) error { return nil }
