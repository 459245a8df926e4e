package turn

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/PratikJH153/OrbitAI/internal/actions"
	"github.com/PratikJH153/OrbitAI/internal/conversation"
	"github.com/PratikJH153/OrbitAI/internal/protocol"
	"github.com/PratikJH153/OrbitAI/internal/speech"
)

var log = logrus.WithField("component", "turn")

// State of the session turn controller.
type State string

const (
	StateIdle          State = "idle"
	StateRecording     State = "recording"
	StateTranscribing  State = "transcribing"
	StateAwaitingReply State = "awaiting_reply"
	StateSpeaking      State = "speaking"
	// StateError is a transient notification; the controller always
	// resolves back to StateIdle afterwards.
	StateError State = "error"
)

// ErrNotIdle is returned when a new turn is requested mid-turn.
var ErrNotIdle = errors.New("a turn is already in progress")

// In-character messages surfaced for each failure condition. No raw
// network or parse error ever reaches the display.
const (
	msgPermissionDenied = "I need permission to use your microphone. Please allow microphone access in your browser."
	msgUnsupported      = "I'm sorry, but your browser doesn't support audio recording. Please try using a modern browser like Chrome or Firefox."
	msgMicFailure       = "I had trouble accessing your microphone. Please try again."
	msgNothingHeard     = "I didn't hear anything. Please try again."
	msgNoSpeech         = "I didn't catch that. Could you please try again?"
	msgTranscription    = "I had trouble understanding what you said. Please try again."
	msgSpeechOut        = "I'm sorry, I lost my voice for a moment there. Please read my reply instead."
)

// Speech is the slice of the speech adapter the controller drives.
type Speech interface {
	StartCapture(ctx context.Context, onCeiling func()) error
	StopCapture(ctx context.Context) (string, error)
	CancelCapture()
	Speak(ctx context.Context, text string) error
}

// ReplyGenerator produces a structured reply for an utterance and history.
type ReplyGenerator interface {
	Generate(ctx context.Context, utterance string, history []conversation.Message) protocol.Reply
}

// Controller is the finite state machine binding the speech adapter and
// the protocol engine into one turn:
//
//	Idle -> Recording -> Transcribing -> AwaitingReply -> Speaking -> Idle
//
// States are mutually exclusive by guard checks; every error path resolves
// to Idle after the UI is notified. The controller is the conversation
// log's only writer, and appends occur in turn-completion order.
type Controller struct {
	speech     Speech
	engine     ReplyGenerator
	intents    *IntentTable
	convo      *conversation.Log
	dispatcher *actions.Dispatcher

	onState   func(State)
	onReply   func(protocol.Reply)
	onDisplay func(text string)

	mu    sync.Mutex
	state State
}

// Hooks are optional observers for UI surfaces.
type Hooks struct {
	OnState   func(State)
	OnReply   func(protocol.Reply)
	OnDisplay func(text string)
}

func NewController(sp Speech, engine ReplyGenerator, intents *IntentTable, convo *conversation.Log, dispatcher *actions.Dispatcher, hooks Hooks) *Controller {
	if dispatcher == nil {
		dispatcher = &actions.Dispatcher{}
	}
	return &Controller{
		speech:     sp,
		engine:     engine,
		intents:    intents,
		convo:      convo,
		dispatcher: dispatcher,
		onState:    hooks.OnState,
		onReply:    hooks.OnReply,
		onDisplay:  hooks.OnDisplay,
		state:      StateIdle,
	}
}

// State returns the current controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	if c.onState != nil {
		c.onState(s)
	}
}

// transition moves from exactly `from` to `to`; it reports false without
// side effects when the controller is in any other state.
func (c *Controller) transition(from, to State) bool {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return false
	}
	c.state = to
	c.mu.Unlock()
	if c.onState != nil {
		c.onState(to)
	}
	return true
}

func (c *Controller) display(msg string) {
	if c.onDisplay != nil {
		c.onDisplay(msg)
	}
}

// fail notifies the UI and resolves the controller back to Idle.
func (c *Controller) fail(msg string) {
	c.setState(StateError)
	c.display(msg)
	c.setState(StateIdle)
}

// ToggleCapture implements the single user-facing capture control: in Idle
// it starts recording, in Recording it stops and runs the turn. In any
// other state it is a no-op. ctx should outlive the turn (it is the
// session's context, not a request's).
func (c *Controller) ToggleCapture(ctx context.Context) {
	switch c.State() {
	case StateIdle:
		c.startCapture(ctx)
	case StateRecording:
		go c.finishVoiceTurn(ctx)
	default:
		// speaking or mid-turn: ignore, per toggle semantics
	}
}

func (c *Controller) startCapture(ctx context.Context) {
	if !c.transition(StateIdle, StateRecording) {
		return
	}
	err := c.speech.StartCapture(ctx, func() {
		// hard ceiling: cut over to transcription with whatever buffered
		if c.State() == StateRecording {
			c.finishVoiceTurn(ctx)
		}
	})
	if err == nil {
		return
	}
	log.Printf("capture start failed: %v", err)
	switch {
	case errors.Is(err, speech.ErrPermissionDenied):
		c.fail(msgPermissionDenied)
	case errors.Is(err, speech.ErrUnsupportedDevice):
		c.fail(msgUnsupported)
	default:
		c.fail(msgMicFailure)
	}
}

// finishVoiceTurn stops capture, transcribes, and runs the reply phase.
func (c *Controller) finishVoiceTurn(ctx context.Context) {
	if !c.transition(StateRecording, StateTranscribing) {
		return
	}
	text, err := c.speech.StopCapture(ctx)
	if err != nil {
		log.Printf("capture stop failed: %v", err)
		switch {
		case errors.Is(err, speech.ErrEmptyCapture):
			c.fail(msgNothingHeard)
		default:
			c.fail(msgTranscription)
		}
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.fail(msgNoSpeech)
		return
	}
	c.setState(StateAwaitingReply)
	c.completeTurn(ctx, text)
}

// HandleText runs a typed-message turn: the same pipeline minus the
// recording and transcription phases. Blank input and mid-turn calls are
// rejected.
func (c *Controller) HandleText(ctx context.Context, text string) (protocol.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return protocol.Reply{}, errors.New("empty message")
	}
	if !c.transition(StateIdle, StateAwaitingReply) {
		return protocol.Reply{}, ErrNotIdle
	}
	return c.completeTurn(ctx, text), nil
}

// completeTurn generates the reply, records the exchange, dispatches the
// directives, and speaks the reply text. Entered in StateAwaitingReply;
// always leaves the controller in StateIdle.
func (c *Controller) completeTurn(ctx context.Context, userText string) protocol.Reply {
	// History is snapshotted before the new user message: the engine
	// appends the utterance itself when building the request.
	history := c.convo.Messages()
	c.convo.AppendUser(userText)

	var reply protocol.Reply
	if r, ok := c.intents.Resolve(userText); ok {
		reply = r
	} else {
		reply = c.engine.Generate(ctx, userText, history)
	}

	c.convo.AppendAssistant(reply.Text)
	if c.onReply != nil {
		c.onReply(reply)
	}
	c.dispatcher.Apply(reply.Actions)

	c.setState(StateSpeaking)
	if err := c.speech.Speak(ctx, reply.Text); err != nil {
		log.Printf("speech out failed: %v", err)
		c.fail(msgSpeechOut)
		return reply
	}
	c.setState(StateIdle)
	return reply
}

// CancelCapture abandons an in-progress recording without a turn.
func (c *Controller) CancelCapture() {
	if c.transition(StateRecording, StateIdle) {
		c.speech.CancelCapture()
	}
}
