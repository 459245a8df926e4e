package speech

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "speech")

// DefaultMaxCaptureDuration is the hard ceiling on one utterance capture.
// Bounds both resource use and hosted-transcription cost.
const DefaultMaxCaptureDuration = 20 * time.Second

// Microphone acquires an exclusive handle on a capture source.
// Implementations map acquisition failures to ErrPermissionDenied or
// ErrUnsupportedDevice.
type Microphone interface {
	Open(ctx context.Context) (CaptureStream, error)
}

// CaptureStream emits buffered audio chunks until closed. Close releases
// the underlying device; it must be safe to call more than once.
type CaptureStream interface {
	Chunks() <-chan []byte
	Close() error
}

// Transcriber converts one finalized audio payload into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Synthesizer converts text into playable audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Player plays synthesized audio to completion.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Adapter binds capture, hosted transcription, hosted synthesis and
// playback for one session. At most one capture and one playback may be in
// flight; the microphone handle is never left open across turns.
type Adapter struct {
	mic         Microphone
	stt         Transcriber
	tts         Synthesizer
	player      Player
	maxDuration time.Duration

	mu       sync.Mutex
	capture  *captureSession
	speaking bool
}

type captureSession struct {
	stream  CaptureStream
	started time.Time
	done    chan struct{}
	timer   *time.Timer

	mu     sync.Mutex
	chunks [][]byte
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxCaptureDuration overrides the capture ceiling.
func WithMaxCaptureDuration(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.maxDuration = d
		}
	}
}

func NewAdapter(mic Microphone, stt Transcriber, tts Synthesizer, player Player, opts ...Option) *Adapter {
	if player == nil {
		player = nopPlayer{}
	}
	a := &Adapter{
		mic:         mic,
		stt:         stt,
		tts:         tts,
		player:      player,
		maxDuration: DefaultMaxCaptureDuration,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartCapture acquires the microphone and begins buffering chunks.
// onCeiling is invoked once, from its own goroutine, if the capture
// reaches the hard duration ceiling without being stopped.
func (a *Adapter) StartCapture(ctx context.Context, onCeiling func()) error {
	if a.mic == nil {
		return ErrUnsupportedDevice
	}
	a.mu.Lock()
	if a.capture != nil {
		a.mu.Unlock()
		return ErrBusy
	}
	// hold the slot while opening so two starts cannot race
	cs := &captureSession{started: time.Now(), done: make(chan struct{})}
	a.capture = cs
	a.mu.Unlock()

	stream, err := a.mic.Open(ctx)
	if err != nil {
		a.mu.Lock()
		a.capture = nil
		a.mu.Unlock()
		return err
	}
	cs.stream = stream

	go func() {
		defer close(cs.done)
		for chunk := range stream.Chunks() {
			if len(chunk) == 0 {
				continue
			}
			buf := make([]byte, len(chunk))
			copy(buf, chunk)
			cs.mu.Lock()
			cs.chunks = append(cs.chunks, buf)
			cs.mu.Unlock()
		}
	}()

	if onCeiling != nil {
		cs.timer = time.AfterFunc(a.maxDuration, func() {
			log.Printf("capture ceiling reached (%s)", a.maxDuration)
			onCeiling()
		})
	}
	return nil
}

// ElapsedSeconds reports whole seconds since capture started, or 0.
func (a *Adapter) ElapsedSeconds() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.capture == nil {
		return 0
	}
	return int(time.Since(a.capture.started) / time.Second)
}

// StopCapture finalizes the buffered audio and sends it to the hosted
// transcription service. Zero captured chunks yields ErrEmptyCapture
// without a transcription call. The microphone is released either way.
func (a *Adapter) StopCapture(ctx context.Context) (string, error) {
	cs := a.takeCapture()
	if cs == nil {
		return "", ErrNoCapture
	}
	audio := finalize(cs)
	if len(audio) == 0 {
		return "", ErrEmptyCapture
	}
	text, err := a.stt.Transcribe(ctx, audio)
	if err != nil {
		return "", &ServiceError{Op: OpTranscription, Err: err}
	}
	return text, nil
}

// CancelCapture discards an in-progress capture and releases the device.
func (a *Adapter) CancelCapture() {
	if cs := a.takeCapture(); cs != nil {
		finalize(cs)
	}
}

func (a *Adapter) takeCapture() *captureSession {
	a.mu.Lock()
	cs := a.capture
	a.capture = nil
	a.mu.Unlock()
	return cs
}

// finalize stops the stream, waits for the collector, and joins chunks.
func finalize(cs *captureSession) []byte {
	if cs.timer != nil {
		cs.timer.Stop()
	}
	if cs.stream != nil {
		_ = cs.stream.Close()
		<-cs.done
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.chunks) == 0 {
		return nil
	}
	return bytes.Join(cs.chunks, nil)
}

// Capturing reports whether a capture is in flight.
func (a *Adapter) Capturing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.capture != nil
}

// Speak synthesizes text and plays the audio to completion. A second call
// while one is in flight is rejected with ErrBusy.
func (a *Adapter) Speak(ctx context.Context, text string) error {
	a.mu.Lock()
	if a.speaking {
		a.mu.Unlock()
		return ErrBusy
	}
	a.speaking = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.speaking = false
		a.mu.Unlock()
	}()

	audio, err := a.tts.Synthesize(ctx, text)
	if err != nil {
		return &ServiceError{Op: OpSynthesis, Err: err}
	}
	if err := a.player.Play(ctx, audio); err != nil {
		return &ServiceError{Op: OpPlayback, Err: err}
	}
	return nil
}

type nopPlayer struct{}

func (nopPlayer) Play(context.Context, []byte) error { return nil }
