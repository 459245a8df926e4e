package protocol

import (
	"encoding/json"
	"strings"
)

// Canned texts used when the model response cannot be decoded as promised.
const (
	textMissingDirect  = "I processed your request, but had trouble formatting my response properly."
	textMissingExtract = "I processed your request, but had trouble with the response format."
	fallbackText       = "I'm having trouble formatting my response right now. Could you try asking again?"
	serviceErrorText   = "I encountered an issue processing that request. My apologies! Let's try that again."
)

// FallbackReply is returned when the decode ladder is exhausted.
func FallbackReply() Reply {
	return Reply{Text: fallbackText, Actions: &Actions{}}
}

// ServiceErrorReply is returned when the hosted completion call itself fails.
func ServiceErrorReply() Reply {
	return Reply{Text: serviceErrorText, Actions: &Actions{}}
}

// Decode runs the ladder over the raw model output: strip code fences,
// direct parse, balanced-brace extraction, fixed fallback. It never fails;
// every path yields a Reply with non-empty text.
func Decode(raw string) Reply {
	cleaned := stripFences(strings.TrimSpace(raw))

	if r, ok := parseReply(cleaned); ok {
		if r.Text == "" {
			r.Text = textMissingDirect
		}
		return r
	}

	if span := extractObject(cleaned); span != "" {
		if r, ok := parseReply(span); ok {
			if r.Text == "" {
				r.Text = textMissingExtract
			}
			return r
		}
	}

	return FallbackReply()
}

// parseReply attempts a strict JSON parse and sanitizes directives.
func parseReply(s string) (Reply, bool) {
	var r Reply
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Reply{}, false
	}
	sanitize(&r)
	return r, true
}

// sanitize drops sub-fields that violate the contract without failing the
// whole decode: an addTask with an out-of-range priority or a blank title
// is discarded, the rest of the reply survives.
func sanitize(r *Reply) {
	if r.Actions == nil {
		return
	}
	if t := r.Actions.AddTask; t != nil {
		if !t.Priority.Valid() || strings.TrimSpace(t.Title) == "" {
			r.Actions.AddTask = nil
		}
	}
}

// stripFences removes a leading ```json or ``` line and a trailing ``` line.
func stripFences(s string) string {
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractObject returns the first balanced top-level {...} span in s, or "".
// A balanced scan rather than a greedy first-to-last-brace match, so prose
// containing stray braces around the object does not break extraction.
func extractObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
