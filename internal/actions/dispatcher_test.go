package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PratikJH153/OrbitAI/internal/protocol"
)

type callRecorder struct {
	calls []string
	tasks []DefaultTask
}

func (r *callRecorder) dispatcher() *Dispatcher {
	return &Dispatcher{
		OnShowActionPanel: func() { r.calls = append(r.calls, "showActionPanel") },
		OnAddTask: func(title string, p protocol.Priority) {
			r.calls = append(r.calls, "addTask")
			r.tasks = append(r.tasks, DefaultTask{Title: title, Priority: p})
		},
		OnCompleteTask:  func() { r.calls = append(r.calls, "completeTask") },
		OnShowProblem:   func() { r.calls = append(r.calls, "showProblem") },
		OnShowResources: func() { r.calls = append(r.calls, "showResources") },
		OnOpenTeamMap:   func() { r.calls = append(r.calls, "openTeamMap") },
		OnCloseSession:  func() { r.calls = append(r.calls, "closeSession") },
	}
}

func TestApply_ExactlyPresentDirectives(t *testing.T) {
	r := &callRecorder{}
	r.dispatcher().Apply(&protocol.Actions{ShowActionPanel: true})
	assert.Equal(t, []string{"showActionPanel"}, r.calls)
}

func TestApply_NoActions(t *testing.T) {
	r := &callRecorder{}
	d := r.dispatcher()
	d.Apply(nil)
	d.Apply(&protocol.Actions{})
	assert.Empty(t, r.calls)
}

func TestApply_FalseDirectiveNotDispatched(t *testing.T) {
	r := &callRecorder{}
	r.dispatcher().Apply(&protocol.Actions{ShowResources: false, CompleteTask: true})
	assert.Equal(t, []string{"completeTask"}, r.calls)
}

func TestApply_AddTaskPayload(t *testing.T) {
	r := &callRecorder{}
	r.dispatcher().Apply(&protocol.Actions{
		AddTask: &protocol.AddTask{Title: "Finish group project", Priority: protocol.PriorityHigh},
	})
	assert.Equal(t, []string{"addTask"}, r.calls)
	assert.Equal(t, "Finish group project", r.tasks[0].Title)
	assert.Equal(t, protocol.PriorityHigh, r.tasks[0].Priority)
}

func TestApply_MissingCallbackSilentlyDropped(t *testing.T) {
	d := &Dispatcher{}
	// no callbacks registered; must not panic
	d.Apply(&protocol.Actions{
		ShowActionPanel:    true,
		CompleteTask:       true,
		ShowProblem:        true,
		ShowResources:      true,
		OpenTeamMap:        true,
		CloseSessionPrompt: true,
		AddTask:            &protocol.AddTask{Title: "x", Priority: protocol.PriorityLow},
	})
}

func TestApply_MultipleDirectivesInOrder(t *testing.T) {
	r := &callRecorder{}
	r.dispatcher().Apply(&protocol.Actions{
		ShowActionPanel: true,
		ShowResources:   true,
		CloseSessionPrompt: true,
	})
	assert.Equal(t, []string{"showActionPanel", "showResources", "closeSession"}, r.calls)
}
