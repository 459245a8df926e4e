package protocol

// Priority of a task the assistant asks the application to create.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three contract priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// AddTask is the structured payload of the addTask directive.
type AddTask struct {
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
}

// Actions carries the optional side-effect directives of a reply.
// Absent or false fields mean "no action"; unknown fields in the wire
// envelope are ignored, never an error.
type Actions struct {
	ShowActionPanel    bool     `json:"showActionPanel,omitempty"`
	AddTask            *AddTask `json:"addTask,omitempty"`
	CompleteTask       bool     `json:"completeTask,omitempty"`
	ShowProblem        bool     `json:"showProblem,omitempty"`
	ShowResources      bool     `json:"showResources,omitempty"`
	OpenTeamMap        bool     `json:"openTeamMap,omitempty"`
	CloseSessionPrompt bool     `json:"closeSessionPrompt,omitempty"`
}

// Empty reports whether no directive is set.
func (a *Actions) Empty() bool {
	if a == nil {
		return true
	}
	return !a.ShowActionPanel && a.AddTask == nil && !a.CompleteTask &&
		!a.ShowProblem && !a.ShowResources && !a.OpenTeamMap && !a.CloseSessionPrompt
}

// Reply is the decoded assistant response. Text is never empty after
// decode; a decode path that cannot produce text substitutes a canned one.
type Reply struct {
	Text    string   `json:"text"`
	Actions *Actions `json:"actions,omitempty"`
}
