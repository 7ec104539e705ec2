package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/session"
	"todolist/internal/storage/sqlite"
	"todolist/internal/uploads"
)

var errDiskGone = errors.New("disk I/O error: secret internals")

func newMockApp(t *testing.T) (*testApp, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := testConfig(t)
	store := sqlite.New(db, discardLogger())
	srv, err := New(cfg, store, uploads.NewLocalStore(cfg.UploadDir, UploadsPath), discardLogger())
	require.NoError(t, err)
	return &testApp{srv: srv, store: store, uploadDir: cfg.UploadDir}, mock
}

func (b *browser) loginAs(t *testing.T, app *testApp, userID int64, username string) {
	t.Helper()
	token, err := app.srv.sessions.Encode(session.Session{UserID: userID, Username: username, LoggedIn: true})
	require.NoError(t, err)
	b.cookies[session.CookieName] = &http.Cookie{Name: session.CookieName, Value: token}
}

func TestRegister_StorageFailureIsGeneric(t *testing.T) {
	app, mock := newMockApp(t)
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM users`).WithArgs("alice").WillReturnError(errDiskGone)

	rec := app.browser(t).register("alice", "secret1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), msgRegisterFailed)
	assert.NotContains(t, rec.Body.String(), "secret internals")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_InsertFailureIsGeneric(t *testing.T) {
	app, mock := newMockApp(t)
	mock.ExpectQuery(`SELECT COUNT\(1\) FROM users`).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errDiskGone)

	rec := app.browser(t).register("alice", "secret1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), msgRegisterFailed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_StorageFailureIsGeneric(t *testing.T) {
	app, mock := newMockApp(t)
	mock.ExpectQuery(`SELECT id, username, password FROM users`).WithArgs("alice").WillReturnError(errDiskGone)

	b := app.browser(t)
	rec := b.login("alice", "secret1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), msgLoginFailed)
	assert.NotContains(t, rec.Body.String(), "secret internals")
	assert.NotContains(t, b.cookies, session.CookieName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTodos_StorageFailureIsGeneric(t *testing.T) {
	app, mock := newMockApp(t)
	mock.ExpectQuery(`SELECT id, user_id, task`).WithArgs(int64(5)).WillReturnError(errDiskGone)

	b := app.browser(t)
	b.loginAs(t, app, 5, "alice")
	rec := b.get("/todos")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "something went wrong")
	assert.NotContains(t, rec.Body.String(), "secret internals")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMutations_StorageFailureRedirects(t *testing.T) {
	app, mock := newMockApp(t)
	mock.ExpectExec(`INSERT INTO todos`).WithArgs(int64(5), "milk", "shopping", "").WillReturnError(errDiskGone)
	mock.ExpectExec(`UPDATE todos SET done = NOT done`).WithArgs(int64(9), int64(5)).WillReturnError(errDiskGone)
	mock.ExpectExec(`DELETE FROM todos`).WithArgs(int64(9), int64(5)).WillReturnError(errDiskGone)

	b := app.browser(t)
	b.loginAs(t, app, 5, "alice")

	for _, rec := range []*httptest.ResponseRecorder{
		b.postForm("/add", url.Values{"task": {"milk"}, "category": {"shopping"}}),
		b.get("/toggle/9"),
		b.get("/delete/9"),
	} {
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/todos", rec.Header().Get("Location"))
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugUsers_StorageFailure(t *testing.T) {
	app, mock := newMockApp(t)
	mock.ExpectQuery(`SELECT id, username FROM users`).WillReturnError(errDiskGone)

	b := app.browser(t)
	b.loginAs(t, app, 5, "alice")
	rec := b.get("/debug_users")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret internals")
	require.NoError(t, mock.ExpectationsWereMet())
}
