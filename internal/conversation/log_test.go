package conversation

import "testing"

func TestLog_AppendOrderPreserved(t *testing.T) {
	l := NewLog()
	l.AppendUser("hey orbit")
	l.AppendAssistant("Hello! Welcome back!")
	l.AppendUser("what am I focusing on?")

	msgs := l.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	wantRoles := []string{RoleUser, RoleAssistant, RoleUser}
	for i, r := range wantRoles {
		if msgs[i].Role != r {
			t.Fatalf("message %d role: got %q want %q", i, msgs[i].Role, r)
		}
	}
	if msgs[2].Content != "what am I focusing on?" {
		t.Fatalf("unexpected content: %q", msgs[2].Content)
	}
}

func TestLog_SnapshotIsACopy(t *testing.T) {
	l := NewLog()
	l.AppendUser("one")
	snap := l.Messages()
	snap[0].Content = "mutated"
	if l.Messages()[0].Content != "one" {
		t.Fatalf("snapshot mutation leaked into the log")
	}
}

func TestLog_Reset(t *testing.T) {
	l := NewLog()
	l.AppendUser("bye orbit")
	l.Reset()
	if l.Len() != 0 {
		t.Fatalf("expected empty log after reset, got %d", l.Len())
	}
}
