package tasks

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

// MatchThreshold — минимальный partial-ratio (0–100), при котором совпадение принимается
const MatchThreshold = 60

// MatchOpenTask resolves a free-text identifier against open tasks by
// partial-substring similarity. Completed tasks are never candidates; ties
// keep the first-seen task. Returns nil when nothing clears the threshold.
func MatchOpenTask(identifier string, candidates []ports.Task, threshold int) *ports.Task {
	needle := strings.ToLower(strings.TrimSpace(identifier))
	if needle == "" {
		return nil
	}

	var best *ports.Task
	bestScore := 0

	for i := range candidates {
		if candidates[i].Completed {
			continue
		}
		score := fuzzy.PartialRatio(needle, strings.ToLower(candidates[i].Description))
		if score > bestScore && score >= threshold {
			bestScore = score
			best = &candidates[i]
		}
	}

	return best
}
