package intent

import "fmt"

type ActionType string

const (
	ActionAddTask        ActionType = "add_task"
	ActionCompleteTask   ActionType = "complete_task"
	ActionListTasks      ActionType = "list_tasks"
	ActionModifyTask     ActionType = "modify_task"
	ActionClearCompleted ActionType = "clear_completed"
	ActionUpdateReminder ActionType = "update_reminder"
	ActionUnclear        ActionType = "unclear"
)

func (a ActionType) Known() bool {
	switch a {
	case ActionAddTask, ActionCompleteTask, ActionListTasks, ActionModifyTask,
		ActionClearCompleted, ActionUpdateReminder, ActionUnclear:
		return true
	}
	return false
}

// TaskAction — structured interpretation of one user command.
// Every resolution path must populate ResponseMessage and Confidence.
type TaskAction struct {
	Action              ActionType `json:"action"`
	TaskDescription     string     `json:"task_description,omitempty"`
	TaskIdentifier      string     `json:"task_identifier,omitempty"`
	NewDescription      string     `json:"new_description,omitempty"`
	ReminderInterval    int        `json:"reminder_interval,omitempty"` // minutes
	PriorityLevel       int        `json:"priority_level,omitempty"`
	SuggestedCategory   string     `json:"suggested_category,omitempty"`
	Confidence          float64    `json:"confidence"`
	ResponseMessage     string     `json:"response_message"`
	ClarificationNeeded string     `json:"clarification_needed,omitempty"`
}

// Validate rejects responses that violate the intent contract.
func (a *TaskAction) Validate() error {
	if !a.Action.Known() {
		return fmt.Errorf("unknown action %q", a.Action)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence %v out of [0,1]", a.Confidence)
	}
	if a.ResponseMessage == "" {
		return fmt.Errorf("empty response_message")
	}
	return nil
}
