package speech

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterPlayer delivers synthesized audio to an io.Writer sink, e.g. an
// audio pipe or a transport pushing bytes to the browser. Play returns once
// the full clip is written.
type WriterPlayer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterPlayer(w io.Writer) *WriterPlayer {
	return &WriterPlayer{w: w}
}

func (p *WriterPlayer) Play(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.w == nil {
		return fmt.Errorf("no audio sink configured")
	}
	if _, err := p.w.Write(audio); err != nil {
		return fmt.Errorf("writing audio: %w", err)
	}
	return nil
}

// PlayerFunc adapts a function to the Player interface.
type PlayerFunc func(ctx context.Context, audio []byte) error

func (f PlayerFunc) Play(ctx context.Context, audio []byte) error { return f(ctx, audio) }
