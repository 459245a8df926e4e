package actions

import (
	"github.com/PratikJH153/OrbitAI/internal/protocol"
)

// Dispatcher maps decoded reply directives to application side effects.
// Every slot is optional: a missing callback silently drops the directive.
type Dispatcher struct {
	OnShowActionPanel func()
	OnAddTask         func(title string, priority protocol.Priority)
	OnCompleteTask    func()
	OnShowProblem     func()
	OnShowResources   func()
	OnOpenTeamMap     func()
	OnCloseSession    func()
}

// Apply invokes exactly the callbacks whose directives are present and
// true. A nil or empty directive set is a no-op.
func (d *Dispatcher) Apply(a *protocol.Actions) {
	if d == nil || a.Empty() {
		return
	}
	if a.ShowActionPanel && d.OnShowActionPanel != nil {
		d.OnShowActionPanel()
	}
	if a.AddTask != nil && d.OnAddTask != nil {
		d.OnAddTask(a.AddTask.Title, a.AddTask.Priority)
	}
	if a.CompleteTask && d.OnCompleteTask != nil {
		d.OnCompleteTask()
	}
	if a.ShowProblem && d.OnShowProblem != nil {
		d.OnShowProblem()
	}
	if a.ShowResources && d.OnShowResources != nil {
		d.OnShowResources()
	}
	if a.OpenTeamMap && d.OnOpenTeamMap != nil {
		d.OnOpenTeamMap()
	}
	if a.CloseSessionPrompt && d.OnCloseSession != nil {
		d.OnCloseSession()
	}
}

// DefaultTask is one of the starter tasks seeded into the action panel the
// first time it is opened.
type DefaultTask struct {
	Title    string
	Priority protocol.Priority
}

// DefaultTasks returns the starter task list for a fresh action panel.
func DefaultTasks() []DefaultTask {
	return []DefaultTask{
		{Title: "Complete Physics Assignment", Priority: protocol.PriorityHigh},
		{Title: "Study for Calculus Exam", Priority: protocol.PriorityMedium},
		{Title: "Research for Group Project", Priority: protocol.PriorityHigh},
		{Title: "Review Lecture Notes", Priority: protocol.PriorityLow},
	}
}
