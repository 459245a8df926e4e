package speech

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTranscriber struct {
	text  string
	err   error
	calls int32
	got   []byte
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.got = audio
	return f.text, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
	delay time.Duration
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.audio, f.err
}

type fakePlayer struct {
	played int32
	err    error
}

func (f *fakePlayer) Play(ctx context.Context, audio []byte) error {
	atomic.AddInt32(&f.played, 1)
	return f.err
}

func TestAdapter_EmptyCaptureSkipsTranscription(t *testing.T) {
	mic := NewPushMicrophone()
	stt := &fakeTranscriber{text: "hello"}
	a := NewAdapter(mic, stt, &fakeSynthesizer{}, &fakePlayer{})

	if err := a.StartCapture(context.Background(), nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := a.StopCapture(context.Background())
	if !errors.Is(err, ErrEmptyCapture) {
		t.Fatalf("expected ErrEmptyCapture, got %v", err)
	}
	if atomic.LoadInt32(&stt.calls) != 0 {
		t.Fatalf("transcriber called on empty capture")
	}
	if a.Capturing() {
		t.Fatalf("capture not released")
	}
}

func TestAdapter_CaptureCollectsChunksAndTranscribes(t *testing.T) {
	mic := NewPushMicrophone()
	stt := &fakeTranscriber{text: "what is centrifugal force"}
	a := NewAdapter(mic, stt, &fakeSynthesizer{}, &fakePlayer{})

	if err := a.StartCapture(context.Background(), nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	mic.Push([]byte{1, 2})
	mic.Push([]byte{3})
	// allow the collector goroutine to drain the channel
	time.Sleep(10 * time.Millisecond)

	text, err := a.StopCapture(context.Background())
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if text != "what is centrifugal force" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if got := stt.got; len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("unexpected joined payload %v", got)
	}
}

func TestAdapter_SecondStartRejected(t *testing.T) {
	mic := NewPushMicrophone()
	a := NewAdapter(mic, &fakeTranscriber{}, &fakeSynthesizer{}, &fakePlayer{})
	if err := a.StartCapture(context.Background(), nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.CancelCapture()
	if err := a.StartCapture(context.Background(), nil); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestAdapter_CeilingFiresOnce(t *testing.T) {
	mic := NewPushMicrophone()
	a := NewAdapter(mic, &fakeTranscriber{}, &fakeSynthesizer{}, &fakePlayer{},
		WithMaxCaptureDuration(20*time.Millisecond))

	var fired int32
	if err := a.StartCapture(context.Background(), func() { atomic.AddInt32(&fired, 1) }); err != nil {
		t.Fatalf("start: %v", err)
	}
	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&fired); got != 1 {
		t.Fatalf("expected ceiling callback once, got %d", got)
	}
	a.CancelCapture()
}

func TestAdapter_StopBeforeCeilingCancelsTimer(t *testing.T) {
	mic := NewPushMicrophone()
	a := NewAdapter(mic, &fakeTranscriber{text: "hi"}, &fakeSynthesizer{}, &fakePlayer{},
		WithMaxCaptureDuration(30*time.Millisecond))

	var fired int32
	if err := a.StartCapture(context.Background(), func() { atomic.AddInt32(&fired, 1) }); err != nil {
		t.Fatalf("start: %v", err)
	}
	mic.Push([]byte{9})
	time.Sleep(5 * time.Millisecond)
	if _, err := a.StopCapture(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Fatalf("ceiling callback fired after manual stop")
	}
}

func TestAdapter_StopWithoutCapture(t *testing.T) {
	a := NewAdapter(NewPushMicrophone(), &fakeTranscriber{}, &fakeSynthesizer{}, &fakePlayer{})
	if _, err := a.StopCapture(context.Background()); !errors.Is(err, ErrNoCapture) {
		t.Fatalf("expected ErrNoCapture, got %v", err)
	}
}

func TestAdapter_TranscriptionErrorWrapped(t *testing.T) {
	mic := NewPushMicrophone()
	stt := &fakeTranscriber{err: errors.New("upstream 500")}
	a := NewAdapter(mic, stt, &fakeSynthesizer{}, &fakePlayer{})
	if err := a.StartCapture(context.Background(), nil); err != nil {
		t.Fatalf("start: %v", err)
	}
	mic.Push([]byte{1})
	time.Sleep(10 * time.Millisecond)
	_, err := a.StopCapture(context.Background())
	op, ok := ServiceOp(err)
	if !ok || op != OpTranscription {
		t.Fatalf("expected transcription ServiceError, got %v", err)
	}
}

func TestAdapter_SpeakPlaysToCompletion(t *testing.T) {
	p := &fakePlayer{}
	a := NewAdapter(nil, &fakeTranscriber{}, &fakeSynthesizer{audio: []byte{1, 2, 3}}, p)
	if err := a.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("speak: %v", err)
	}
	if atomic.LoadInt32(&p.played) != 1 {
		t.Fatalf("expected one playback")
	}
}

func TestAdapter_ConcurrentSpeakRejected(t *testing.T) {
	a := NewAdapter(nil, &fakeTranscriber{}, &fakeSynthesizer{audio: []byte{1}, delay: 50 * time.Millisecond}, &fakePlayer{})

	errCh := make(chan error, 1)
	go func() { errCh <- a.Speak(context.Background(), "first") }()
	time.Sleep(10 * time.Millisecond)
	if err := a.Speak(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for concurrent speak, got %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("first speak: %v", err)
	}
}

func TestAdapter_SynthesisAndPlaybackErrorsWrapped(t *testing.T) {
	a := NewAdapter(nil, &fakeTranscriber{}, &fakeSynthesizer{err: errors.New("boom")}, &fakePlayer{})
	if op, ok := ServiceOp(a.Speak(context.Background(), "x")); !ok || op != OpSynthesis {
		t.Fatalf("expected synthesis ServiceError")
	}
	a = NewAdapter(nil, &fakeTranscriber{}, &fakeSynthesizer{audio: []byte{1}}, &fakePlayer{err: errors.New("device gone")})
	if op, ok := ServiceOp(a.Speak(context.Background(), "x")); !ok || op != OpPlayback {
		t.Fatalf("expected playback ServiceError")
	}
}

func TestPushMicrophone_DropsWhenNoCapture(t *testing.T) {
	mic := NewPushMicrophone()
	if mic.Push([]byte{1}) {
		t.Fatalf("push accepted with no open stream")
	}
	stream, err := mic.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !mic.Push([]byte{1}) {
		t.Fatalf("push rejected with open stream")
	}
	_ = stream.Close()
	if mic.Push([]byte{1}) {
		t.Fatalf("push accepted after close")
	}
}

func TestDisabledMicrophone(t *testing.T) {
	a := NewAdapter(DisabledMicrophone{}, &fakeTranscriber{}, &fakeSynthesizer{}, &fakePlayer{})
	if err := a.StartCapture(context.Background(), nil); !errors.Is(err, ErrUnsupportedDevice) {
		t.Fatalf("expected ErrUnsupportedDevice, got %v", err)
	}
	a = NewAdapter(DisabledMicrophone{Reason: ErrPermissionDenied}, &fakeTranscriber{}, &fakeSynthesizer{}, &fakePlayer{})
	if err := a.StartCapture(context.Background(), nil); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}
