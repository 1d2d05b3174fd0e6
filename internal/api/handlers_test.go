package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"example.com/exercisetracker/internal/domain"
	"example.com/exercisetracker/internal/ident"
	"example.com/exercisetracker/internal/persistence/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	directory := domain.NewDirectory(store, ident.NewGenerator(), zerolog.Nop())
	engine := domain.NewLogEngine(store, zerolog.Nop())
	server := httptest.NewServer(NewRouter(NewHandler(directory, engine), zerolog.Nop()))
	t.Cleanup(server.Close)
	return server
}

func postForm(t *testing.T, server *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, server *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var body T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func readText(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func createUser(t *testing.T, server *httptest.Server, username string) UserView {
	t.Helper()
	resp := postForm(t, server, "/api/exercise/new-user", url.Values{"username": {username}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[UserView](t, resp)
}

func addExercise(t *testing.T, server *httptest.Server, form url.Values) AddEntryResponse {
	t.Helper()
	resp := postForm(t, server, "/api/exercise/add", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[AddEntryResponse](t, resp)
}

func TestListUsersEmpty(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/exercise/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "No users yet in the database.", readText(t, resp))
}

func TestCreateUserAndList(t *testing.T) {
	server := newTestServer(t)

	alice := createUser(t, server, "alice")
	require.Len(t, alice.ID, ident.Length)
	require.Equal(t, "alice", alice.Username)

	again := createUser(t, server, "alice")
	require.Equal(t, alice.ID, again.ID)

	bob := createUser(t, server, "bob")
	require.NotEqual(t, alice.ID, bob.ID)

	resp := get(t, server, "/api/exercise/users")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	users := decodeBody[[]UserView](t, resp)
	require.Equal(t, []UserView{alice, bob}, users)
}

func TestCreateUserRequiresUsername(t *testing.T) {
	server := newTestServer(t)

	resp := postForm(t, server, "/api/exercise/new-user", url.Values{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "username is required", readText(t, resp))
}

func TestCreateUserAcceptsJSON(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Post(server.URL+"/api/exercise/new-user", "application/json", strings.NewReader(`{"username":"carol"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decodeBody[UserView](t, resp)
	require.Equal(t, "carol", user.Username)
	require.Len(t, user.ID, ident.Length)
}

func TestAddEntryScenario(t *testing.T) {
	server := newTestServer(t)
	alice := createUser(t, server, "alice")

	first := addExercise(t, server, url.Values{
		"userId":      {alice.ID},
		"description": {"running"},
		"duration":    {"30"},
	})
	require.Equal(t, alice.ID, first.ID)
	require.Equal(t, "alice", first.Username)
	require.Equal(t, 1, first.Count)
	require.Len(t, first.Log, 1)
	require.Equal(t, "Running", first.Log[0].Description)
	require.Equal(t, 30, first.Log[0].Duration)
	require.Equal(t, time.Now().Format(domain.DisplayDateLayout), first.Log[0].Date)

	second := addExercise(t, server, url.Values{
		"userId":      {alice.ID},
		"description": {"cycling"},
		"duration":    {"45"},
		"date":        {"2019-05-01"},
	})
	require.Equal(t, 2, second.Count)
	require.Equal(t, "Running", second.Log[0].Description)
	require.Equal(t, "Cycling", second.Log[1].Description)
	require.Equal(t, "Wed May 01 2019", second.Log[1].Date)
}

func TestAddEntryErrors(t *testing.T) {
	server := newTestServer(t)
	alice := createUser(t, server, "alice")

	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing fields",
			form:       url.Values{"userId": {alice.ID}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Please fill in required fields",
		},
		{
			name:       "zero duration",
			form:       url.Values{"userId": {alice.ID}, "description": {"running"}, "duration": {"0"}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid Duration",
		},
		{
			name:       "malformed date",
			form:       url.Values{"userId": {alice.ID}, "description": {"running"}, "duration": {"30"}, "date": {"01-05-2019"}},
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid Date",
		},
		{
			name:       "unknown user",
			form:       url.Values{"userId": {"nobody000"}, "description": {"running"}, "duration": {"30"}},
			wantStatus: http.StatusNotFound,
			wantBody:   "Unknown UserId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postForm(t, server, "/api/exercise/add", tt.form)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Equal(t, tt.wantBody, readText(t, resp))
		})
	}
}

func TestQueryLogFiltersAndLimit(t *testing.T) {
	server := newTestServer(t)
	alice := createUser(t, server, "alice")

	for _, date := range []string{"2019-05-01", "2020-01-15", "2020-01-20", "2020-02-10", "2020-03-01"} {
		addExercise(t, server, url.Values{
			"userId":      {alice.ID},
			"description": {"session"},
			"duration":    {"30"},
			"date":        {date},
		})
	}

	full := decodeBody[LogResponse](t, get(t, server, "/api/exercise/log?userId="+alice.ID))
	require.Equal(t, 5, full.Count)
	require.Nil(t, full.From)
	require.Nil(t, full.To)

	ranged := decodeBody[LogResponse](t, get(t, server,
		"/api/exercise/log?userId="+alice.ID+"&from=2020-01-01&to=2020-01-31"))
	require.Equal(t, 2, ranged.Count)
	require.NotNil(t, ranged.From)
	require.Equal(t, "Wed Jan 01 2020", *ranged.From)
	require.NotNil(t, ranged.To)
	require.Equal(t, "Fri Jan 31 2020", *ranged.To)
	require.Equal(t, "Mon Jan 20 2020", ranged.Log[0].Date)
	require.Equal(t, "Wed Jan 15 2020", ranged.Log[1].Date)

	limited := decodeBody[LogResponse](t, get(t, server, "/api/exercise/log?userId="+alice.ID+"&limit=2"))
	require.Equal(t, 2, limited.Count)
	require.Equal(t, "Sun Mar 01 2020", limited.Log[0].Date)
	require.Equal(t, "Mon Feb 10 2020", limited.Log[1].Date)
}

func TestQueryLogErrors(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/exercise/log")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "UserId Required", readText(t, resp))

	resp = get(t, server, "/api/exercise/log?userId=nobody000")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Unknown UserId", readText(t, resp))
}

func TestUnmatchedRoute(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/api/exercise/unknown")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Not Found", readText(t, resp))
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", readText(t, resp))
}

func TestIndexPage(t *testing.T) {
	server := newTestServer(t)

	resp := get(t, server, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	require.Contains(t, readText(t, resp), "Exercise Tracker")
}
