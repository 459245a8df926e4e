package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PratikJH153/OrbitAI/internal/protocol"
)

// Points awarded per task priority, and per saved session.
const (
	pointsLow     = 5
	pointsMedium  = 10
	pointsHigh    = 15
	pointsSession = 20

	// one level per 50 points
	pointsPerLevel = 50
)

// Task is one item on an assignment's task list.
type Task struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Completed bool              `json:"completed"`
	Priority  protocol.Priority `json:"priority"`
	Points    int               `json:"points"`
}

// Assignment groups tasks under a piece of coursework.
type Assignment struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Tasks       []Task `json:"tasks"`
}

// Note is a saved session summary on the user's profile.
type Note struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

// Profile is the gamified user profile.
type Profile struct {
	Name              string `json:"name"`
	Points            int    `json:"points"`
	Level             int    `json:"level"`
	CompletedSessions int    `json:"completedSessions"`
	Notes             []Note `json:"notes"`
}

// EndPrompt is the session-end confirmation state.
type EndPrompt struct {
	Show    bool   `json:"show"`
	Content string `json:"content"`
}

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	Assignments          []Assignment `json:"assignments"`
	SelectedAssignmentID string       `json:"selectedAssignmentId,omitempty"`
	Profile              Profile      `json:"profile"`
	ActionPanelVisible   bool         `json:"actionPanelVisible"`
	RightPanelVisible    bool         `json:"rightPanelVisible"`
	TeamMapVisible       bool         `json:"teamMapVisible"`
	EndPrompt            EndPrompt    `json:"sessionEndPrompt"`
	LastPointsEarned     int          `json:"lastPointsEarned"`
}

// Store holds assignments, tasks, profile and UI-visibility flags for one
// session. Mutations are reducer-style entry points behind a single lock;
// the turn controller and dispatcher are the only writers.
type Store struct {
	mu sync.Mutex

	assignments []Assignment
	selectedID  string
	profile     Profile

	actionPanelVisible bool
	rightPanelVisible  bool
	teamMapVisible     bool
	endPrompt          EndPrompt
	lastPointsEarned   int
}

// NewStore creates a session store with the starter profile.
func NewStore(studentName string) *Store {
	if studentName == "" {
		studentName = "Student"
	}
	return &Store{
		profile: Profile{
			Name:   studentName,
			Points: 135,
			Level:  levelFor(135),
		},
	}
}

func levelFor(points int) int {
	return points/pointsPerLevel + 1
}

func pointsFor(p protocol.Priority) int {
	switch p {
	case protocol.PriorityHigh:
		return pointsHigh
	case protocol.PriorityMedium:
		return pointsMedium
	default:
		return pointsLow
	}
}

// AddAssignment creates an assignment and selects it.
func (s *Store) AddAssignment(title, description, dueDate string) Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := Assignment{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
	}
	s.assignments = append(s.assignments, a)
	s.selectedID = a.ID
	return a
}

// SelectAssignment marks an assignment as the active one.
func (s *Store) SelectAssignment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments {
		if a.ID == id {
			s.selectedID = id
			return true
		}
	}
	return false
}

// DeleteAssignment removes an assignment and clears the selection if it
// pointed at it.
func (s *Store) DeleteAssignment(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.assignments[:0]
	for _, a := range s.assignments {
		if a.ID != id {
			out = append(out, a)
		}
	}
	s.assignments = out
	if s.selectedID == id {
		s.selectedID = ""
	}
}

// AddTask appends a task to the selected assignment, creating a default
// assignment first when none is selected. Task points derive from priority.
func (s *Store) AddTask(title string, priority protocol.Priority) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !priority.Valid() {
		priority = protocol.PriorityMedium
	}
	idx := s.selectedIndexLocked()
	if idx < 0 {
		s.assignments = append(s.assignments, Assignment{
			ID:    uuid.NewString(),
			Title: "Study Session",
		})
		idx = len(s.assignments) - 1
		s.selectedID = s.assignments[idx].ID
	}
	t := Task{
		ID:       uuid.NewString(),
		Title:    title,
		Priority: priority,
		Points:   pointsFor(priority),
	}
	s.assignments[idx].Tasks = append(s.assignments[idx].Tasks, t)
	return t
}

// HasTask reports whether a task with the given title already exists on the
// selected assignment. Used to keep default-task seeding idempotent.
func (s *Store) HasTask(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.selectedIndexLocked()
	if idx < 0 {
		return false
	}
	for _, t := range s.assignments[idx].Tasks {
		if t.Title == title {
			return true
		}
	}
	return false
}

// ToggleTask flips a task's completion. Completing a task awards its
// points and recomputes the level.
func (s *Store) ToggleTask(assignmentID, taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ai := range s.assignments {
		if s.assignments[ai].ID != assignmentID {
			continue
		}
		for ti := range s.assignments[ai].Tasks {
			t := &s.assignments[ai].Tasks[ti]
			if t.ID != taskID {
				continue
			}
			t.Completed = !t.Completed
			if t.Completed {
				s.awardLocked(t.Points)
			}
			return true
		}
	}
	return false
}

// CompleteNextTask completes the first incomplete task on the selected
// assignment, awarding its points. Backs the completeTask directive.
func (s *Store) CompleteNextTask() (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.selectedIndexLocked()
	if idx < 0 {
		return Task{}, false
	}
	for ti := range s.assignments[idx].Tasks {
		t := &s.assignments[idx].Tasks[ti]
		if !t.Completed {
			t.Completed = true
			s.awardLocked(t.Points)
			return *t, true
		}
	}
	return Task{}, false
}

func (s *Store) selectedIndexLocked() int {
	if s.selectedID == "" {
		if len(s.assignments) > 0 {
			return 0
		}
		return -1
	}
	for i, a := range s.assignments {
		if a.ID == s.selectedID {
			return i
		}
	}
	return -1
}

func (s *Store) awardLocked(points int) {
	if points <= 0 {
		return
	}
	s.profile.Points += points
	s.profile.Level = levelFor(s.profile.Points)
	s.lastPointsEarned = points
}

// AddPoints awards points directly.
func (s *Store) AddPoints(points int) {
	s.mu.Lock()
	s.awardLocked(points)
	s.mu.Unlock()
}

// Visibility flag mutations backing the panel directives.

func (s *Store) SetActionPanelVisible(v bool) {
	s.mu.Lock()
	s.actionPanelVisible = v
	s.mu.Unlock()
}

func (s *Store) SetRightPanelVisible(v bool) {
	s.mu.Lock()
	s.rightPanelVisible = v
	s.mu.Unlock()
}

func (s *Store) SetTeamMapVisible(v bool) {
	s.mu.Lock()
	s.teamMapVisible = v
	s.mu.Unlock()
}

// ShowEndPrompt raises the session-end confirmation with the transcript
// content that would be saved.
func (s *Store) ShowEndPrompt(content string) {
	s.mu.Lock()
	s.endPrompt = EndPrompt{Show: true, Content: content}
	s.mu.Unlock()
}

func (s *Store) HideEndPrompt() {
	s.mu.Lock()
	s.endPrompt = EndPrompt{}
	s.mu.Unlock()
}

// SaveSessionNotes stores the pending end-prompt content as a profile note,
// counts the session, and awards the session bonus. No-op when no prompt is
// pending.
func (s *Store) SaveSessionNotes(title string) (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.endPrompt.Content == "" {
		return Note{}, false
	}
	n := Note{
		ID:      uuid.NewString(),
		Title:   title,
		Content: s.endPrompt.Content,
		Date:    time.Now(),
	}
	s.profile.Notes = append(s.profile.Notes, n)
	s.profile.CompletedSessions++
	s.awardLocked(pointsSession)
	s.endPrompt = EndPrompt{}
	return n, true
}

// Snapshot returns a deep copy of the current state for rendering.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Snapshot{
		SelectedAssignmentID: s.selectedID,
		Profile:              s.profile,
		ActionPanelVisible:   s.actionPanelVisible,
		RightPanelVisible:    s.rightPanelVisible,
		TeamMapVisible:       s.teamMapVisible,
		EndPrompt:            s.endPrompt,
		LastPointsEarned:     s.lastPointsEarned,
	}
	out.Assignments = make([]Assignment, len(s.assignments))
	for i, a := range s.assignments {
		copied := a
		copied.Tasks = append([]Task(nil), a.Tasks...)
		out.Assignments[i] = copied
	}
	out.Profile.Notes = append([]Note(nil), s.profile.Notes...)
	return out
}
