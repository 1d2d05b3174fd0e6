// Package memory provides an in-memory UserStore for local development and tests.
package memory

import (
	"context"
	"sync"

	"example.com/exercisetracker/internal/domain"
)

// Store keeps users in a map guarded by a RWMutex. Listings preserve
// creation order.
type Store struct {
	mu    sync.RWMutex
	users map[string]domain.User
	order []string
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{users: make(map[string]domain.User)}
}

// FindByUsername implements domain.UserStore.
func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if user := s.users[id]; user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, nil
}

// FindByID implements domain.UserStore.
func (s *Store) FindByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(user), nil
}

// List implements domain.UserStore.
func (s *Store) List(ctx context.Context) ([]domain.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.UserSummary, 0, len(s.order))
	for _, id := range s.order {
		user := s.users[id]
		summaries = append(summaries, domain.UserSummary{ID: user.ID, Username: user.Username})
	}
	return summaries, nil
}

// Save implements domain.UserStore with upsert semantics.
func (s *Store) Save(ctx context.Context, user domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *copyUser(user)
	if _, exists := s.users[user.ID]; !exists {
		s.order = append(s.order, user.ID)
	}
	s.users[user.ID] = stored
	return copyUser(stored), nil
}

// copyUser clones the user including its log so callers cannot mutate stored
// state through the returned pointer.
func copyUser(user domain.User) *domain.User {
	cloned := user
	cloned.Log = make([]domain.Entry, len(user.Log))
	copy(cloned.Log, user.Log)
	return &cloned
}
