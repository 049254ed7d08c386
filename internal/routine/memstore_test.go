package routine

import (
	"context"
	"errors"
	"sync"

	"github.com/sandeepkv93/routined/internal/model"
)

// memStore is an in-memory Store with per-method error injection.
type memStore struct {
	mu          sync.Mutex
	tasks       map[string]model.RoutineTask
	completions map[string]model.Completion
	plans       map[string]model.CommunicationPlan

	insertCompletionErr error
	deleteCompletionErr error
	setActiveErr        error
	orderErr            error
	deletes             int
}

func newMemStore() *memStore {
	return &memStore{
		tasks:       make(map[string]model.RoutineTask),
		completions: make(map[string]model.Completion),
		plans:       make(map[string]model.CommunicationPlan),
	}
}

func (s *memStore) LoadTasks(_ context.Context, userID string) ([]model.RoutineTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.RoutineTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) LoadCompletions(_ context.Context, userID string) ([]model.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Completion, 0, len(s.completions))
	for _, c := range s.completions {
		if s.tasks[c.TaskID].UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) LoadPlan(_ context.Context, userID string) (*model.CommunicationPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) FindCompletion(_ context.Context, taskID, periodKey string) (model.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.completions {
		if c.TaskID == taskID && c.Period == periodKey {
			return c, nil
		}
	}
	return model.Completion{}, model.ErrNotFound
}

func (s *memStore) InsertCompletion(_ context.Context, c model.Completion) (model.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertCompletionErr != nil {
		return model.Completion{}, s.insertCompletionErr
	}
	for _, existing := range s.completions {
		if existing.TaskID == c.TaskID && existing.Period == c.Period {
			return model.Completion{}, model.ErrDuplicateCompletion
		}
	}
	s.completions[c.ID] = c
	return c, nil
}

func (s *memStore) DeleteCompletion(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteCompletionErr != nil {
		return s.deleteCompletionErr
	}
	if _, ok := s.completions[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.completions, id)
	return nil
}

func (s *memStore) InsertTask(_ context.Context, t model.RoutineTask) (model.RoutineTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; ok {
		return model.RoutineTask{}, errors.New("memstore: task exists")
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *memStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.tasks, id)
	s.purge(id)
	return nil
}

func (s *memStore) SetTaskActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setActiveErr != nil {
		return s.setActiveErr
	}
	t, ok := s.tasks[id]
	if !ok {
		return model.ErrNotFound
	}
	t.IsActive = active
	s.tasks[id] = t
	if !active {
		s.purge(id)
	}
	return nil
}

func (s *memStore) UpdateTaskOrder(_ context.Context, _ string, orderedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orderErr != nil {
		return s.orderErr
	}
	for pos, id := range orderedIDs {
		t := s.tasks[id]
		t.SortOrder = pos
		s.tasks[id] = t
	}
	return nil
}

func (s *memStore) SavePlan(_ context.Context, plan model.CommunicationPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.UserID] = plan
	return nil
}

func (s *memStore) purge(taskID string) {
	for id, c := range s.completions {
		if c.TaskID == taskID {
			delete(s.completions, id)
		}
	}
}

func (s *memStore) completionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completions)
}
