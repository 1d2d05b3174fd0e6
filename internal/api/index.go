package api

import "net/http"

// indexPage is the landing page with the user and exercise forms.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Exercise Tracker</title>
</head>
<body>
  <h1>Exercise Tracker</h1>
  <form action="/api/exercise/new-user" method="post">
    <h2>Create a New User</h2>
    <input name="username" placeholder="username" required>
    <input type="submit" value="Create">
  </form>
  <form action="/api/exercise/add" method="post">
    <h2>Add an Exercise</h2>
    <input name="userId" placeholder="userId" required>
    <input name="description" placeholder="description" required>
    <input name="duration" placeholder="duration (mins)" required>
    <input name="date" placeholder="date (yyyy-mm-dd)">
    <input type="submit" value="Add">
  </form>
  <p>
    Query a log at <code>/api/exercise/log?userId=&amp;from=&amp;to=&amp;limit=</code>
    or list users at <code>/api/exercise/users</code>.
  </p>
</body>
</html>
`

func index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(indexPage))
}
