package domain

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"example.com/exercisetracker/internal/observability"
)

var (
	durationPattern = regexp.MustCompile(`^[1-9]\d*$`)
	datePattern     = regexp.MustCompile(`^[12]\d{3}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	wordPattern     = regexp.MustCompile(`\w+`)
)

// LogEngine validates, normalizes, stores and queries exercise entries.
type LogEngine struct {
	store UserStore
	now   func() time.Time
	log   zerolog.Logger
}

// EngineOption configures a LogEngine.
type EngineOption func(*LogEngine)

// WithClock overrides the time source used for defaulted entry dates.
func WithClock(now func() time.Time) EngineOption {
	return func(e *LogEngine) {
		e.now = now
	}
}

// NewLogEngine constructs a LogEngine.
func NewLogEngine(store UserStore, logger zerolog.Logger, opts ...EngineOption) *LogEngine {
	engine := &LogEngine{store: store, now: time.Now, log: logger}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// AddEntryInput carries the raw field values of an add request. Duration and
// Date arrive as strings and are validated here.
type AddEntryInput struct {
	UserID      string
	Description string
	Duration    string
	Date        string
}

// AddEntry validates and normalizes the input, appends the entry to the user's
// log keeping it in descending date order, and persists the updated user. The
// returned user reflects the post-insert state.
func (e *LogEngine) AddEntry(ctx context.Context, in AddEntryInput) (*User, error) {
	if in.UserID == "" || in.Description == "" || in.Duration == "" {
		return nil, ErrMissingFields
	}
	if !durationPattern.MatchString(in.Duration) {
		return nil, ErrInvalidDuration
	}

	date := dayOf(e.now())
	if in.Date != "" {
		parsed, ok := parseDate(in.Date)
		if !ok {
			return nil, ErrInvalidDate
		}
		date = parsed
	}

	user, err := e.store.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	duration, err := strconv.Atoi(in.Duration)
	if err != nil {
		return nil, ErrInvalidDuration
	}

	user.Log = append(user.Log, Entry{
		Description: NormalizeDescription(in.Description),
		DurationMin: duration,
		Date:        date,
	})
	sortLog(user.Log)
	user.Count = len(user.Log)

	saved, err := e.store.Save(ctx, *user)
	if err != nil {
		return nil, err
	}

	observability.RecordEntryAdded()
	e.log.Info().
		Str("user_id", saved.ID).
		Int("count", saved.Count).
		Str("date", date.Format(DateLayout)).
		Msg("entry added")
	return saved, nil
}

// QueryInput carries the raw query parameters of a log request.
type QueryInput struct {
	UserID string
	From   string
	To     string
	Limit  string
}

// QueryResult is the filtered view of a user's log. Count reflects the
// filtered length, not the user's total log length.
type QueryResult struct {
	ID       string
	Username string
	From     *time.Time
	To       *time.Time
	Count    int
	Entries  []Entry
}

// QueryLog resolves the user and applies the from/to/limit filters
// independently, each only when its value is valid. Invalid filter values are
// ignored rather than rejected.
func (e *LogEngine) QueryLog(ctx context.Context, in QueryInput) (*QueryResult, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, ErrMissingUserID
	}

	user, err := e.store.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	entries := make([]Entry, len(user.Log))
	copy(entries, user.Log)

	result := QueryResult{ID: user.ID, Username: user.Username}

	if from, ok := parseDate(in.From); ok {
		result.From = &from
		entries = filterEntries(entries, func(entry Entry) bool {
			return !entry.Date.Before(from)
		})
	}
	if to, ok := parseDate(in.To); ok {
		result.To = &to
		entries = filterEntries(entries, func(entry Entry) bool {
			return !entry.Date.After(to)
		})
	}
	if limit, err := strconv.Atoi(in.Limit); err == nil && limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	result.Count = len(entries)
	result.Entries = entries

	observability.RecordLogQuery()
	return &result, nil
}

// NormalizeDescription lower-cases the text, then upper-cases the first letter
// of every maximal run of word characters.
func NormalizeDescription(s string) string {
	lowered := strings.ToLower(s)
	return wordPattern.ReplaceAllStringFunc(lowered, func(word string) string {
		first, size := utf8.DecodeRuneInString(word)
		return string(unicode.ToUpper(first)) + word[size:]
	})
}

// sortLog orders entries most recent first. The sort is stable so same-date
// entries keep their insertion order.
func sortLog(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

func filterEntries(entries []Entry, keep func(Entry) bool) []Entry {
	out := entries[:0]
	for _, entry := range entries {
		if keep(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// parseDate accepts only YYYY-MM-DD values naming a real calendar date.
func parseDate(s string) (time.Time, bool) {
	if !datePattern.MatchString(s) {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func dayOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
