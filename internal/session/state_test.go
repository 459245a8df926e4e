package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikJH153/OrbitAI/internal/protocol"
)

func TestStore_TaskPointsByPriority(t *testing.T) {
	s := NewStore("Michael")
	s.AddAssignment("Physics", "Projectile motion problem set", "2026-09-05")

	low := s.AddTask("Review Lecture Notes", protocol.PriorityLow)
	med := s.AddTask("Study for Calculus Exam", protocol.PriorityMedium)
	high := s.AddTask("Finish group project", protocol.PriorityHigh)

	assert.Equal(t, 5, low.Points)
	assert.Equal(t, 10, med.Points)
	assert.Equal(t, 15, high.Points)
}

func TestStore_AddTaskWithoutAssignmentCreatesDefault(t *testing.T) {
	s := NewStore("")
	s.AddTask("Finish group project", protocol.PriorityHigh)
	snap := s.Snapshot()
	require.Len(t, snap.Assignments, 1)
	assert.Equal(t, "Study Session", snap.Assignments[0].Title)
	require.Len(t, snap.Assignments[0].Tasks, 1)
}

func TestStore_CompleteNextTaskAwardsPointsAndLevels(t *testing.T) {
	s := NewStore("Michael")
	s.AddAssignment("Physics", "", "")
	s.AddTask("t1", protocol.PriorityHigh)
	s.AddTask("t2", protocol.PriorityLow)

	before := s.Snapshot().Profile
	task, ok := s.CompleteNextTask()
	require.True(t, ok)
	assert.Equal(t, "t1", task.Title)
	assert.True(t, task.Completed)

	after := s.Snapshot()
	assert.Equal(t, before.Points+15, after.Profile.Points)
	assert.Equal(t, after.Profile.Points/50+1, after.Profile.Level)
	assert.Equal(t, 15, after.LastPointsEarned)

	// second call completes the remaining task, third finds nothing
	_, ok = s.CompleteNextTask()
	assert.True(t, ok)
	_, ok = s.CompleteNextTask()
	assert.False(t, ok)
}

func TestStore_ToggleTaskAwardsOnlyOnCompletion(t *testing.T) {
	s := NewStore("Michael")
	a := s.AddAssignment("Physics", "", "")
	task := s.AddTask("t", protocol.PriorityMedium)

	p0 := s.Snapshot().Profile.Points
	require.True(t, s.ToggleTask(a.ID, task.ID))
	p1 := s.Snapshot().Profile.Points
	assert.Equal(t, p0+10, p1)

	// un-completing must not change points
	require.True(t, s.ToggleTask(a.ID, task.ID))
	assert.Equal(t, p1, s.Snapshot().Profile.Points)
}

func TestStore_SaveSessionNotes(t *testing.T) {
	s := NewStore("Michael")
	if _, ok := s.SaveSessionNotes("empty"); ok {
		t.Fatalf("expected no-op without a pending end prompt")
	}

	s.ShowEndPrompt("transcript of the session")
	before := s.Snapshot().Profile
	note, ok := s.SaveSessionNotes("Physics session")
	require.True(t, ok)
	assert.Equal(t, "transcript of the session", note.Content)

	after := s.Snapshot()
	assert.Equal(t, before.CompletedSessions+1, after.Profile.CompletedSessions)
	assert.Equal(t, before.Points+20, after.Profile.Points)
	assert.False(t, after.EndPrompt.Show)
	require.Len(t, after.Profile.Notes, 1)
}

func TestStore_SnapshotIsDeepCopy(t *testing.T) {
	s := NewStore("Michael")
	s.AddAssignment("Physics", "", "")
	s.AddTask("t", protocol.PriorityLow)

	snap := s.Snapshot()
	snap.Assignments[0].Tasks[0].Title = "mutated"
	assert.Equal(t, "t", s.Snapshot().Assignments[0].Tasks[0].Title)
}

func TestStore_HasTask(t *testing.T) {
	s := NewStore("Michael")
	s.AddAssignment("Physics", "", "")
	s.AddTask("Review Lecture Notes", protocol.PriorityLow)
	assert.True(t, s.HasTask("Review Lecture Notes"))
	assert.False(t, s.HasTask("Something else"))
}

func TestStore_DeleteAssignmentClearsSelection(t *testing.T) {
	s := NewStore("Michael")
	a := s.AddAssignment("Physics", "", "")
	s.DeleteAssignment(a.ID)
	snap := s.Snapshot()
	assert.Empty(t, snap.Assignments)
	assert.Empty(t, snap.SelectedAssignmentID)
}
