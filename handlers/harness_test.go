package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/gotodo/gotodo/internal/config"
	"github.com/gotodo/gotodo/internal/models"
	"github.com/gotodo/gotodo/internal/sessions"
	"github.com/gotodo/gotodo/internal/todo"
	"github.com/gotodo/gotodo/internal/users"
	"github.com/gotodo/gotodo/pkg/middleware"
)

// countingRepo wraps a todo repository and counts store calls, so tests can
// assert that rejected requests never reach the store.
type countingRepo struct {
	inner todo.Repository
	calls int
}

func (r *countingRepo) ListByOwner(ctx context.Context, ownerID string) ([]*todo.Todo, error) {
	r.calls++
	return r.inner.ListByOwner(ctx, ownerID)
}

func (r *countingRepo) FindByID(ctx context.Context, id string) (*todo.Todo, error) {
	r.calls++
	return r.inner.FindByID(ctx, id)
}

func (r *countingRepo) Create(ctx context.Context, t *todo.Todo) (string, error) {
	r.calls++
	return r.inner.Create(ctx, t)
}

func (r *countingRepo) Save(ctx context.Context, t *todo.Todo) error {
	r.calls++
	return r.inner.Save(ctx, t)
}

func (r *countingRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) (int64, error) {
	r.calls++
	return r.inner.DeleteByIDAndOwner(ctx, id, ownerID)
}

type testApp struct {
	handler  http.Handler
	repo     *countingRepo
	mem      *todo.MemoryRepository
	sessions *sessions.Service
	users    *users.Service
	cfg      *config.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Session.CookieName = "sid"
	cfg.Session.TTL = time.Hour

	mem := todo.NewMemoryRepository()
	repo := &countingRepo{inner: mem}
	sessSvc := sessions.NewService(sessions.NewMemoryRepository())
	userSvc := users.NewService(users.NewMemoryRepository())

	r := gin.New()
	r.LoadHTMLGlob("../templates/*.tmpl")
	r.Use(middleware.Session(cfg, sessSvc, userSvc))

	NewPageHandler().Register(r)
	NewAuthHandler(userSvc, sessSvc).Register(r.Group("/"))
	tg := r.Group("/todos", middleware.RequireLogin(sessSvc))
	NewTodoHandler(repo, sessSvc).Register(tg)

	return &testApp{
		handler:  middleware.MethodOverride(r),
		repo:     repo,
		mem:      mem,
		sessions: sessSvc,
		users:    userSvc,
		cfg:      cfg,
	}
}

// registerUser creates an account straight through the users service.
func (a *testApp) registerUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	u, err := a.users.Register(context.Background(), name, email, "secret")
	require.NoError(t, err)
	return u
}

// loginToken creates an authenticated session and returns its cookie token.
func (a *testApp) loginToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := a.sessions.Create(context.Background(), userID, time.Hour)
	require.NoError(t, err)
	return token
}

// request performs one request. A non-empty token is sent as the session
// cookie; form is sent urlencoded for non-GET methods.
func (a *testApp) request(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: token})
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

// get follows up on a redirect and returns the rendered page body, which is
// how flash messages become observable.
func (a *testApp) get(t *testing.T, path, token string) string {
	t.Helper()
	w := a.request(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}
