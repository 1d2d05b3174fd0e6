// Package api exposes the HTTP handlers of the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/exercisetracker/internal/domain"
)

// noUsersMessage is the body served when the directory is empty.
const noUsersMessage = "No users yet in the database."

// Handler coordinates HTTP requests with the directory and log engine.
type Handler struct {
	directory *domain.Directory
	logs      *domain.LogEngine
}

// NewHandler builds a Handler.
func NewHandler(directory *domain.Directory, logs *domain.LogEngine) *Handler {
	return &Handler{directory: directory, logs: logs}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.directory.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if len(summaries) == 0 {
		writeText(w, http.StatusOK, noUsersMessage)
		return
	}

	views := make([]UserView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, UserView{ID: summary.ID, Username: summary.Username})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req newUserRequest
	if err := decodeRequest(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.directory.Create(r.Context(), req.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserView{ID: user.ID, Username: user.Username})
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := decodeRequest(r, &req); err != nil {
		writeText(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	user, err := h.logs.AddEntry(r.Context(), domain.AddEntryInput{
		UserID:      req.UserID,
		Description: req.Description,
		Duration:    req.Duration,
		Date:        req.Date,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AddEntryResponse{
		ID:       user.ID,
		Username: user.Username,
		Count:    user.Count,
		Log:      toEntryViews(user.Log),
	})
}

func (h *Handler) queryLog(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	result, err := h.logs.QueryLog(r.Context(), domain.QueryInput{
		UserID: query.Get("userId"),
		From:   query.Get("from"),
		To:     query.Get("to"),
		Limit:  query.Get("limit"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := LogResponse{
		ID:       result.ID,
		Username: result.Username,
		Count:    result.Count,
		Log:      toEntryViews(result.Entries),
	}
	if result.From != nil {
		from := result.From.Format(domain.DisplayDateLayout)
		resp.From = &from
	}
	if result.To != nil {
		to := result.To.Format(domain.DisplayDateLayout)
		resp.To = &to
	}
	writeJSON(w, http.StatusOK, resp)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusNotFound, "Not Found")
}

// newUserRequest is the payload for POST /api/exercise/new-user.
type newUserRequest struct {
	Username string `json:"username"`
}

// addEntryRequest is the payload for POST /api/exercise/add. Duration and date
// stay strings; the log engine owns their validation.
type addEntryRequest struct {
	UserID      string `json:"userId"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Date        string `json:"date"`
}

// UserView is the {_id, username} projection of a user.
type UserView struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// EntryView renders one log entry with its canonical date string.
type EntryView struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// AddEntryResponse reflects the post-insert state of the user.
type AddEntryResponse struct {
	ID       string      `json:"_id"`
	Username string      `json:"username"`
	Count    int         `json:"count"`
	Log      []EntryView `json:"log"`
}

// LogResponse packages a filtered log query. Count is the filtered length.
type LogResponse struct {
	ID       string      `json:"_id"`
	Username string      `json:"username"`
	From     *string     `json:"from,omitempty"`
	To       *string     `json:"to,omitempty"`
	Count    int         `json:"count"`
	Log      []EntryView `json:"log"`
}

func toEntryViews(entries []domain.Entry) []EntryView {
	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, EntryView{
			Description: entry.Description,
			Duration:    entry.DurationMin,
			Date:        entry.DateString(),
		})
	}
	return views
}

// decodeRequest accepts JSON or form-encoded bodies.
func decodeRequest(r *http.Request, dst any) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	switch req := dst.(type) {
	case *newUserRequest:
		req.Username = r.PostFormValue("username")
	case *addEntryRequest:
		req.UserID = r.PostFormValue("userId")
		req.Description = r.PostFormValue("description")
		req.Duration = r.PostFormValue("duration")
		req.Date = r.PostFormValue("date")
	default:
		return errors.New("api: unsupported request type")
	}
	return nil
}

// writeDomainError maps domain errors onto HTTP statuses, preserving the
// user-facing message text.
func writeDomainError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeText(w, http.StatusBadRequest, validation.Error())
		return
	}
	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeText(w, http.StatusNotFound, notFoundErr.Error())
		return
	}
	writeText(w, http.StatusInternalServerError, "Internal Server Error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
