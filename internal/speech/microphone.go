package speech

import (
	"context"
	"sync"
)

// PushMicrophone adapts an external chunk source, such as a browser
// streaming recorder frames over a websocket, to the Microphone interface.
// One stream may be open at a time; pushed chunks are dropped while no
// capture is active.
type PushMicrophone struct {
	mu     sync.Mutex
	stream *pushStream
}

func NewPushMicrophone() *PushMicrophone {
	return &PushMicrophone{}
}

func (m *PushMicrophone) Open(ctx context.Context) (CaptureStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream != nil {
		return nil, ErrBusy
	}
	s := &pushStream{mic: m, ch: make(chan []byte, 64)}
	m.stream = s
	return s, nil
}

// Push delivers one audio chunk to the open capture stream. It reports
// whether a capture was active to receive it.
func (m *PushMicrophone) Push(chunk []byte) bool {
	m.mu.Lock()
	s := m.stream
	m.mu.Unlock()
	if s == nil {
		return false
	}
	return s.push(chunk)
}

func (m *PushMicrophone) release(s *pushStream) {
	m.mu.Lock()
	if m.stream == s {
		m.stream = nil
	}
	m.mu.Unlock()
}

type pushStream struct {
	mic *PushMicrophone
	ch  chan []byte

	mu     sync.Mutex
	closed bool
}

func (s *pushStream) Chunks() <-chan []byte { return s.ch }

func (s *pushStream) push(chunk []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- chunk:
		return true
	default:
		// buffer full: drop rather than block the transport
		return false
	}
}

func (s *pushStream) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	s.mu.Unlock()
	s.mic.release(s)
	return nil
}

// DisabledMicrophone always fails with the configured reason. Used when no
// capture source is wired, or the user declined access for the session.
type DisabledMicrophone struct {
	Reason error
}

func (m DisabledMicrophone) Open(context.Context) (CaptureStream, error) {
	if m.Reason != nil {
		return nil, m.Reason
	}
	return nil, ErrUnsupportedDevice
}
