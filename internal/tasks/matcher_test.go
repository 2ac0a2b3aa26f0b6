package tasks

import (
	"testing"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

func openTasks() []ports.Task {
	return []ports.Task{
		{ID: 1, Description: "Buy groceries for the week"},
		{ID: 2, Description: "Call the dentist"},
		{ID: 3, Description: "Finish quarterly report"},
	}
}

func TestMatchOpenTask(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		wantID     int64
	}{
		{"exact word", "groceries", 1},
		{"case insensitive", "GROCERIES", 1},
		{"partial phrase", "the dentist appointment", 2},
		{"reworded", "quarterly report", 3},
		{"nothing close", "xyzzy plugh", 0},
		{"empty identifier", "", 0},
		{"whitespace identifier", "   ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchOpenTask(tt.identifier, openTasks(), MatchThreshold)
			if tt.wantID == 0 {
				if got != nil {
					t.Fatalf("matched %q, want no match", got.Description)
				}
				return
			}
			if got == nil {
				t.Fatalf("no match, want task %d", tt.wantID)
			}
			if got.ID != tt.wantID {
				t.Errorf("matched task %d (%q), want %d", got.ID, got.Description, tt.wantID)
			}
		})
	}
}

func TestMatchOpenTaskSkipsCompleted(t *testing.T) {
	candidates := []ports.Task{
		{ID: 1, Description: "Buy groceries", Completed: true},
		{ID: 2, Description: "Call the dentist"},
	}

	if got := MatchOpenTask("groceries", candidates, MatchThreshold); got != nil {
		t.Fatalf("matched completed task %d", got.ID)
	}
}

func TestMatchOpenTaskTieKeepsFirstSeen(t *testing.T) {
	candidates := []ports.Task{
		{ID: 1, Description: "water the plants"},
		{ID: 2, Description: "water the plants"},
	}

	got := MatchOpenTask("water the plants", candidates, MatchThreshold)
	if got == nil || got.ID != 1 {
		t.Fatalf("got %+v, want first-seen task 1", got)
	}
}

func TestMatchOpenTaskNoCandidates(t *testing.T) {
	if got := MatchOpenTask("anything", nil, MatchThreshold); got != nil {
		t.Fatalf("matched %+v against empty candidate list", got)
	}
}
