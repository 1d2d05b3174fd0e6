// Package domain defines the business logic for the exercise tracker.
package domain

import (
	"context"
	"time"
)

// DateLayout is the wire format accepted for entry dates.
const DateLayout = "2006-01-02"

// DisplayDateLayout is the canonical human-readable rendering of an entry date.
const DisplayDateLayout = "Mon Jan 02 2006"

// Entry is one immutable exercise session in a user's log.
type Entry struct {
	Description string
	DurationMin int
	Date        time.Time // day granularity, UTC midnight
}

// DateString renders the entry date in the canonical display form.
func (e Entry) DateString() string {
	return e.Date.Format(DisplayDateLayout)
}

// User is an account owning an append-only exercise log.
// Count always equals len(Log); it is recomputed on every mutation.
type User struct {
	ID       string
	Username string
	Log      []Entry
	Count    int
}

// UserSummary is the {id, username} projection returned by listings.
type UserSummary struct {
	ID       string
	Username string
}

// UserStore is the persistence contract required by the Directory and LogEngine.
// Lookups return (nil, nil) when no user matches. Save has upsert semantics and
// must persist Log and Count together.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]UserSummary, error)
	Save(ctx context.Context, user User) (*User, error)
}
