package tasks

import (
	"context"
	"log"

	"github.com/Vovarama1992/voice_tasker/internal/ports"
)

type Service struct {
	repo ports.TaskRepo
}

func NewService(repo ports.TaskRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, data ports.TaskCreate) (ports.Task, error) {
	task, err := s.repo.Create(ctx, data)
	if err != nil {
		return ports.Task{}, err
	}
	log.Printf("[tasks] created id=%d %q", task.ID, task.Description)
	return task, nil
}

func (s *Service) List(ctx context.Context, includeCompleted bool) ([]ports.Task, error) {
	return s.repo.List(ctx, includeCompleted)
}

func (s *Service) Get(ctx context.Context, id int64) (*ports.Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, data ports.TaskUpdate) (*ports.Task, error) {
	return s.repo.Update(ctx, id, data)
}

func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Complete(ctx context.Context, id int64) (*ports.Task, error) {
	completed := true
	return s.repo.Update(ctx, id, ports.TaskUpdate{Completed: &completed})
}

func (s *Service) ClearCompleted(ctx context.Context) (int, error) {
	n, err := s.repo.ClearCompleted(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[tasks] cleared %d completed", n)
	}
	return n, nil
}

func (s *Service) Snapshot(ctx context.Context) ([]ports.TaskSnapshot, error) {
	open, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	snap := make([]ports.TaskSnapshot, 0, len(open))
	for _, t := range open {
		snap = append(snap, ports.TaskSnapshot{
			ID:          t.ID,
			Description: t.Description,
			Priority:    t.Priority,
			Category:    t.Category,
		})
	}
	return snap, nil
}

func (s *Service) FindByDescription(ctx context.Context, identifier string) (*ports.Task, error) {
	open, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	match := MatchOpenTask(identifier, open, MatchThreshold)
	if match != nil {
		log.Printf("[tasks] matched %q -> id=%d %q", identifier, match.ID, match.Description)
	}
	return match, nil
}
