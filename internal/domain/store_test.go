package domain

import "context"

// fakeStore is an in-memory UserStore for unit tests.
type fakeStore struct {
	users map[string]User
	order []string

	findErr error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]User)}
}

func (s *fakeStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, id := range s.order {
		if user := s.users[id]; user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByID(ctx context.Context, id string) (*User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (s *fakeStore) List(ctx context.Context) ([]UserSummary, error) {
	summaries := make([]UserSummary, 0, len(s.order))
	for _, id := range s.order {
		user := s.users[id]
		summaries = append(summaries, UserSummary{ID: user.ID, Username: user.Username})
	}
	return summaries, nil
}

func (s *fakeStore) Save(ctx context.Context, user User) (*User, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if _, exists := s.users[user.ID]; !exists {
		s.order = append(s.order, user.ID)
	}
	s.users[user.ID] = *cloneUser(user)
	return cloneUser(user), nil
}

func cloneUser(user User) *User {
	cloned := user
	cloned.Log = make([]Entry, len(user.Log))
	copy(cloned.Log, user.Log)
	return &cloned
}

// seqIDs hands out a fixed sequence of identifiers.
type seqIDs struct {
	ids  []string
	next int
}

func (s *seqIDs) Next() (string, error) {
	if s.next >= len(s.ids) {
		id := s.ids[len(s.ids)-1]
		return id, nil
	}
	id := s.ids[s.next]
	s.next++
	return id, nil
}
