package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"example.com/exercisetracker/internal/observability"
)

// IDSource produces candidate user identifiers.
type IDSource interface {
	Next() (string, error)
}

// maxIDAttempts bounds the retry loop when a generated id collides with an
// existing user.
const maxIDAttempts = 5

// ErrIDSpaceExhausted is returned when every generated id candidate collided.
var ErrIDSpaceExhausted = errors.New("directory: exhausted id generation attempts")

// Directory resolves and creates users, enforcing username uniqueness.
type Directory struct {
	store UserStore
	ids   IDSource
	log   zerolog.Logger
}

// NewDirectory constructs a Directory.
func NewDirectory(store UserStore, ids IDSource, logger zerolog.Logger) *Directory {
	return &Directory{store: store, ids: ids, log: logger}
}

// List returns the {id, username} projection of every user. An empty slice is
// a valid result, not an error.
func (d *Directory) List(ctx context.Context) ([]UserSummary, error) {
	return d.store.List(ctx)
}

// Create registers a user with the given username. Creation is idempotent: if
// the username is already taken the existing user is returned unchanged.
func (d *Directory) Create(ctx context.Context, username string) (*User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrMissingUsername
	}

	existing, err := d.store.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	id, err := d.newID(ctx)
	if err != nil {
		return nil, err
	}

	saved, err := d.store.Save(ctx, User{
		ID:       id,
		Username: username,
		Log:      []Entry{},
		Count:    0,
	})
	if err != nil {
		return nil, err
	}

	observability.RecordUserCreated()
	d.log.Info().Str("user_id", saved.ID).Str("username", saved.Username).Msg("user created")
	return saved, nil
}

// FindByID resolves a user by id, returning ErrUnknownUser when absent.
func (d *Directory) FindByID(ctx context.Context, id string) (*User, error) {
	user, err := d.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}
	return user, nil
}

// newID draws id candidates until one does not collide with a stored user.
func (d *Directory) newID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		candidate, err := d.ids.Next()
		if err != nil {
			return "", err
		}
		taken, err := d.store.FindByID(ctx, candidate)
		if err != nil {
			return "", err
		}
		if taken == nil {
			return candidate, nil
		}
		d.log.Warn().Str("candidate", candidate).Int("attempt", attempt+1).Msg("id collision, retrying")
	}
	return "", ErrIDSpaceExhausted
}
