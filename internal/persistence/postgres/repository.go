// Package postgres implements the UserStore contract on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/observability"
)

// Querier is the subset of pgxpool.Pool the repository needs. It is narrow so
// tests can substitute a mock pool.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides Postgres-backed persistence for users and their logs.
type Repository struct {
	db Querier
}

// NewRepository constructs a Repository.
func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

const selectUser = `SELECT id, username FROM users WHERE `

// FindByUsername implements domain.UserStore.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findBy(ctx, selectUser+`username=$1`, username)
}

// FindByID implements domain.UserStore.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findBy(ctx, selectUser+`id=$1`, id)
}

func (r *Repository) findBy(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	row := r.db.QueryRow(ctx, query, arg)
	if err := row.Scan(&user.ID, &user.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	log, err := r.loadLog(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Log = log
	user.Count = len(log)
	return &user, nil
}

func (r *Repository) loadLog(ctx context.Context, userID string) ([]domain.Entry, error) {
	const query = `SELECT description, duration_min, entry_date
        FROM log_entries WHERE user_id=$1 ORDER BY position`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	log := make([]domain.Entry, 0)
	for rows.Next() {
		var entry domain.Entry
		var date time.Time
		if err := rows.Scan(&entry.Description, &entry.DurationMin, &date); err != nil {
			return nil, err
		}
		entry.Date = date.UTC()
		log = append(log, entry)
	}
	return log, rows.Err()
}

// List implements domain.UserStore, ordered by registration time.
func (r *Repository) List(ctx context.Context) ([]domain.UserSummary, error) {
	const query = `SELECT id, username FROM users ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.UserSummary, 0)
	for rows.Next() {
		var summary domain.UserSummary
		if err := rows.Scan(&summary.ID, &summary.Username); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// Save upserts the user and rewrites the log inside a single transaction so
// the log and its count land atomically. Entry positions record the engine's
// ordering for faithful read-back.
func (r *Repository) Save(ctx context.Context, user domain.User) (*domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const upsertUser = `INSERT INTO users (id, username) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username`
	if _, err = tx.Exec(ctx, upsertUser, user.ID, user.Username); err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM log_entries WHERE user_id=$1`, user.ID); err != nil {
		return nil, err
	}

	const insertEntry = `INSERT INTO log_entries (id, user_id, position, description, duration_min, entry_date)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for position, entry := range user.Log {
		if _, err = tx.Exec(ctx, insertEntry,
			uuid.NewString(),
			user.ID,
			position,
			entry.Description,
			entry.DurationMin,
			entry.Date,
		); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	observability.RecordUserPersisted(time.Now().UTC())

	saved := user
	saved.Count = len(user.Log)
	return &saved, nil
}
