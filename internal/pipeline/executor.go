package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/Vovarama1992/voice_tasker/internal/intent"
	"github.com/Vovarama1992/voice_tasker/internal/metrics"
	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

// executeAction applies a resolved intent against the task store. The outer
// contract of the pipeline is "always answer the user", so every store error
// is converted to false here and never propagated.
func (s *Service) executeAction(ctx context.Context, action intent.TaskAction) bool {
	switch action.Action {
	case intent.ActionAddTask:
		if action.TaskDescription == "" {
			return false
		}
		priority := action.PriorityLevel
		if priority == 0 {
			priority = 3
		}
		_, err := s.tasks.Create(ctx, ports.TaskCreate{
			Description: action.TaskDescription,
			Priority:    priority,
			Category:    action.SuggestedCategory,
		})
		if err != nil {
			log.Printf("[executor] add failed: %v", err)
			return false
		}
		s.tasksChanged()
		return true

	case intent.ActionCompleteTask:
		task, ok := s.resolveTarget(ctx, action.TaskIdentifier)
		if !ok {
			return false
		}
		if _, err := s.tasks.Complete(ctx, task.ID); err != nil {
			log.Printf("[executor] complete failed: %v", err)
			return false
		}
		s.tasksChanged()
		return true

	case intent.ActionModifyTask:
		if action.NewDescription == "" {
			return false
		}
		task, ok := s.resolveTarget(ctx, action.TaskIdentifier)
		if !ok {
			return false
		}
		desc := action.NewDescription
		if _, err := s.tasks.Update(ctx, task.ID, ports.TaskUpdate{Description: &desc}); err != nil {
			log.Printf("[executor] modify failed: %v", err)
			return false
		}
		s.tasksChanged()
		return true

	case intent.ActionUpdateReminder:
		if action.ReminderInterval <= 0 {
			return false
		}
		task, ok := s.resolveTarget(ctx, action.TaskIdentifier)
		if !ok {
			return false
		}
		remindAt := time.Now().Add(time.Duration(action.ReminderInterval) * time.Minute)
		if _, err := s.tasks.Update(ctx, task.ID, ports.TaskUpdate{RemindAt: &remindAt}); err != nil {
			log.Printf("[executor] reminder update failed: %v", err)
			return false
		}
		s.tasksChanged()
		return true

	case intent.ActionClearCompleted:
		if _, err := s.tasks.ClearCompleted(ctx); err != nil {
			log.Printf("[executor] clear completed failed: %v", err)
			return false
		}
		s.tasksChanged()
		return true

	case intent.ActionListTasks, intent.ActionUnclear:
		// no store mutation
		return true

	default:
		log.Printf("[executor] unknown action tag %q", action.Action)
		metrics.ExecutorAnomalies.Inc()
		s.notifyAnomaly(ctx, action)
		return false
	}
}

// resolveTarget maps a free-text identifier to a concrete open task.
func (s *Service) resolveTarget(ctx context.Context, identifier string) (*ports.Task, bool) {
	if identifier == "" {
		return nil, false
	}
	task, err := s.tasks.FindByDescription(ctx, identifier)
	if err != nil {
		log.Printf("[executor] match failed: %v", err)
		return nil, false
	}
	if task == nil {
		log.Printf("[executor] no open task matches %q", identifier)
		return nil, false
	}
	return task, true
}

func (s *Service) tasksChanged() {
	if s.onChange != nil {
		s.onChange()
	}
}
