package intent

import (
	"fmt"
	"strings"
)

// Cue-word tables for the deterministic fallback. Confidence per branch is
// fixed: the list cue is nearly unambiguous, add/complete are looser guesses.
var (
	addCues      = []string{"add", "create", "new"}
	completeCues = []string{"done", "finished", "complete", "completed"}
	listCues     = []string{"list", "show", "what", "tasks"}
	stripWords   = map[string]struct{}{"add": {}, "create": {}, "new": {}, "task": {}}
)

// FallbackResolve interprets a command with keyword matching only. Pure and
// deterministic: identical input always yields an identical action.
func FallbackResolve(text string) TaskAction {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, addCues):
		desc := stripCueWords(text)
		return TaskAction{
			Action:          ActionAddTask,
			TaskDescription: desc,
			Confidence:      0.7,
			ResponseMessage: fmt.Sprintf("I've added '%s' to your tasks.", desc),
		}

	case containsAny(lower, completeCues):
		return TaskAction{
			Action:          ActionCompleteTask,
			TaskIdentifier:  text,
			Confidence:      0.6,
			ResponseMessage: "I'll mark that task as complete.",
		}

	case containsAny(lower, listCues):
		return TaskAction{
			Action:          ActionListTasks,
			Confidence:      0.8,
			ResponseMessage: "Here are your current tasks.",
		}

	default:
		return TaskAction{
			Action:              ActionUnclear,
			Confidence:          0.0,
			ResponseMessage:     "I didn't understand that. Could you please try again?",
			ClarificationNeeded: "Please tell me if you want to add, complete, or list tasks.",
		}
	}
}

func containsAny(lower string, cues []string) bool {
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,!?")
		for _, cue := range cues {
			if word == cue {
				return true
			}
		}
	}
	return false
}

func stripCueWords(text string) string {
	kept := make([]string, 0, 8)
	for _, word := range strings.Fields(text) {
		if _, cue := stripWords[strings.ToLower(strings.Trim(word, ".,!?"))]; cue {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
