package speech

import (
	"errors"
	"fmt"
)

// Capture failure conditions surfaced to the caller. Each maps to a short
// in-character message at the UI boundary; none is fatal to the session.
var (
	// ErrPermissionDenied means the user declined microphone access.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrUnsupportedDevice means no capture source is available.
	ErrUnsupportedDevice = errors.New("audio capture unsupported")
	// ErrEmptyCapture means the capture produced no audio.
	ErrEmptyCapture = errors.New("no audio captured")
	// ErrBusy means a capture or playback is already in flight.
	ErrBusy = errors.New("speech adapter busy")
	// ErrNoCapture means stop was requested with no capture in progress.
	ErrNoCapture = errors.New("no capture in progress")
)

// Hosted-service operation names carried by ServiceError.
const (
	OpTranscription = "transcription"
	OpSynthesis     = "synthesis"
	OpPlayback      = "playback"
)

// ServiceError wraps a hosted-call or playback failure with the operation
// that produced it. The raw cause never propagates past the UI boundary.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ServiceOp returns the failed operation name if err is a ServiceError.
func ServiceOp(err error) (string, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Op, true
	}
	return "", false
}
