package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/voice_tasker/internal/metrics"
	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

const systemPromptTemplate = `You are a task management assistant. Interpret the user's command and return a single JSON object.

Current tasks:
%s

The JSON object must have these fields:
- "action": one of "add_task", "complete_task", "list_tasks", "modify_task", "clear_completed", "update_reminder", "unclear"
- "task_description", "task_identifier", "new_description", "suggested_category": strings, optional
- "priority_level": integer 1-5, optional; "reminder_interval": minutes, optional
- "confidence": number 0.0-1.0
- "response_message": natural language reply to speak back to the user
- "clarification_needed": string, only when action is "unclear"

Guidelines:
- For add_task: extract the exact task description
- For complete_task and modify_task: match against existing tasks using fuzzy logic, put the matching keywords into task_identifier
- Set confidence based on how clear the intent is
- Generate a natural, conversational response
- If unclear, set action to "unclear" and provide clarification_needed
- If the user says things like "I'm done with X" or "finished X", treat it as complete_task
- Be helpful and encouraging in your responses

Examples:
- "Add buy milk" -> add_task with task_description="buy milk"
- "I finished the groceries" -> complete_task with task_identifier="groceries"
- "What's on my list?" -> list_tasks
- "Change the meeting to 3 PM" -> modify_task with task_identifier="meeting" and new_description="meeting at 3 PM"`

// Resolver turns transcript text into a TaskAction. It never fails: when the
// LLM is unreachable, misconfigured or returns a schema-invalid reply, the
// keyword fallback answers instead.
type Resolver struct {
	client *openai.Client
	model  string
}

// NewResolver accepts a nil client; resolution then always uses the fallback.
func NewResolver(client *openai.Client) *Resolver {
	return &Resolver{client: client, model: openai.GPT4oMini}
}

func (r *Resolver) Resolve(ctx context.Context, text string, snapshot []ports.TaskSnapshot) TaskAction {
	if r.client == nil {
		log.Printf("[intent] llm not configured, using keyword fallback")
		metrics.IntentFallbacks.Inc()
		return FallbackResolve(text)
	}

	action, err := r.resolveLLM(ctx, text, snapshot)
	if err != nil {
		log.Printf("[intent] llm path failed: %v, using keyword fallback", err)
		metrics.IntentFallbacks.Inc()
		return FallbackResolve(text)
	}

	log.Printf("[intent] %q -> %s (confidence %.2f)", text, action.Action, action.Confidence)
	return action
}

func (r *Resolver) resolveLLM(ctx context.Context, text string, snapshot []ports.TaskSnapshot) (TaskAction, error) {
	if snapshot == nil {
		snapshot = []ports.TaskSnapshot{}
	}
	tasksJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return TaskAction{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	llmCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(llmCtx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPromptTemplate, tasksJSON)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return TaskAction{}, err
	}
	if len(resp.Choices) == 0 {
		return TaskAction{}, fmt.Errorf("empty completion")
	}

	var action TaskAction
	if err := unmarshalRepaired([]byte(resp.Choices[0].Message.Content), &action); err != nil {
		return TaskAction{}, fmt.Errorf("decode completion: %w", err)
	}
	if err := action.Validate(); err != nil {
		return TaskAction{}, fmt.Errorf("schema-invalid completion: %w", err)
	}
	return action, nil
}

// unmarshalRepaired retries through jsonrepair when the model wraps or
// truncates its JSON.
func unmarshalRepaired(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return rerr
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}
