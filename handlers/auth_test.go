package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterThenLogin(t *testing.T) {
	app := newTestApp(t)

	// an anonymous session carries the flash through the redirects
	token := app.loginToken(t, "")

	w := app.request(t, http.MethodPost, "/users/register", token, url.Values{
		"name":      {"Jane"},
		"email":     {"jane@example.com"},
		"password":  {"hunter2"},
		"password2": {"hunter2"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/users/login", w.Header().Get("Location"))
	body := app.get(t, "/users/login", token)
	require.Contains(t, body, "You are now registered and can log in")

	w = app.request(t, http.MethodPost, "/users/login", token, url.Values{
		"email":    {"jane@example.com"},
		"password": {"hunter2"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/todos", w.Header().Get("Location"))

	// the session is now authenticated, the todo pages open
	body = app.get(t, "/todos", token)
	require.Contains(t, body, "Your Todos")
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "Jane", "jane@example.com")
	token := app.loginToken(t, "")

	for _, form := range []url.Values{
		{"email": {"jane@example.com"}, "password": {"wrong"}},
		{"email": {"nobody@example.com"}, "password": {"secret"}},
	} {
		w := app.request(t, http.MethodPost, "/users/login", token, form)
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/users/login", w.Header().Get("Location"))
		body := app.get(t, "/users/login", token)
		require.Contains(t, body, "Invalid email or password")
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	app := newTestApp(t)
	token := app.loginToken(t, "")

	w := app.request(t, http.MethodPost, "/users/register", token, url.Values{
		"name":      {""},
		"email":     {"jane@example.com"},
		"password":  {"abc"},
		"password2": {"xyz"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "Please add a name")
	require.Contains(t, body, "Password must be at least 4 characters")
	require.Contains(t, body, "Passwords do not match")
	// the email is echoed back
	require.Contains(t, body, "jane@example.com")

	u, err := app.users.Authenticate(context.Background(), "jane@example.com", "abc")
	require.NoError(t, err)
	require.Nil(t, u, "no account may be created on validation failure")
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t)
	app.registerUser(t, "Jane", "jane@example.com")
	token := app.loginToken(t, "")

	w := app.request(t, http.MethodPost, "/users/register", token, url.Values{
		"name":      {"Impostor"},
		"email":     {"jane@example.com"},
		"password":  {"hunter2"},
		"password2": {"hunter2"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Email already registered")
}

func TestAuth_LogoutUnbindsUser(t *testing.T) {
	app := newTestApp(t)
	u := app.registerUser(t, "Jane", "jane@example.com")
	token := app.loginToken(t, u.ID)

	w := app.request(t, http.MethodGet, "/users/logout", token, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/users/login", w.Header().Get("Location"))
	body := app.get(t, "/users/login", token)
	require.Contains(t, body, "You are logged out")

	// the same session no longer opens protected pages
	w = app.request(t, http.MethodGet, "/todos", token, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/users/login", w.Header().Get("Location"))
}
