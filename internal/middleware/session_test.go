package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"stockroom/internal/auth"
	"stockroom/internal/model"
	"stockroom/internal/session"
)

// stubStore is an in-memory session.Store for middleware tests.
type stubStore struct {
	sessions map[string]session.Session
}

func newStubStore() *stubStore {
	return &stubStore{sessions: map[string]session.Session{}}
}

func (s *stubStore) Create(ctx context.Context, sess session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *stubStore) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok || sess.Expired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *stubStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func seedSession(store *stubStore, role string) session.Session {
	sess := session.Session{
		ID: "sess-" + role,
		Snapshot: session.Snapshot{
			UserID:   uuid.New(),
			Username: "alice",
			Role:     role,
		},
		ExpiresAt: time.Now().Add(session.TTL),
	}
	store.sessions[sess.ID] = sess
	return sess
}

func doRequest(store *stubStore, cookieValue string, handler echo.HandlerFunc, wrap ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := handler
	for i := len(wrap) - 1; i >= 0; i-- {
		h = wrap[i](h)
	}
	h = ResolveSession(store)(h)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func TestResolveSession_AttachesSnapshot(t *testing.T) {
	store := newStubStore()
	sess := seedSession(store, model.RoleUser)

	rec := doRequest(store, sess.ID, func(c echo.Context) error {
		snap, ok := SnapshotFrom(c)
		assert.True(t, ok)
		assert.Equal(t, "alice", snap.Username)

		id, ok := SessionIDFrom(c)
		assert.True(t, ok)
		assert.Equal(t, sess.ID, id)
		return c.String(http.StatusOK, "ok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveSession_UnknownCookieStaysAnonymous(t *testing.T) {
	store := newStubStore()

	rec := doRequest(store, "no-such-session", func(c echo.Context) error {
		_, ok := SnapshotFrom(c)
		assert.False(t, ok)
		return c.String(http.StatusOK, "ok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResolveSession_ExpiredSessionIsAnonymous(t *testing.T) {
	store := newStubStore()
	store.sessions["stale"] = session.Session{
		ID:        "stale",
		Snapshot:  session.Snapshot{Username: "alice"},
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	rec := doRequest(store, "stale", func(c echo.Context) error {
		_, ok := SnapshotFrom(c)
		assert.False(t, ok)
		return c.String(http.StatusOK, "ok")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSession(t *testing.T) {
	store := newStubStore()
	sess := seedSession(store, model.RoleUser)

	rec := doRequest(store, sess.ID, okHandler, RequireSession)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(store, "", okHandler, RequireSession)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
}

func TestRequireGuest(t *testing.T) {
	store := newStubStore()
	sess := seedSession(store, model.RoleUser)

	rec := doRequest(store, sess.ID, okHandler, RequireGuest)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))

	rec = doRequest(store, "", okHandler, RequireGuest)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	store := newStubStore()
	adminSess := seedSession(store, model.RoleAdmin)
	userSess := seedSession(store, model.RoleUser)

	rec := doRequest(store, adminSess.ID, okHandler, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(store, userSess.ID, okHandler, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(store, "", okHandler, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRequireAPIAuth(t *testing.T) {
	store := newStubStore()
	sess := seedSession(store, model.RoleUser)
	jwtService := auth.NewJWTService("test-secret")

	t.Run("session cookie accepted", func(t *testing.T) {
		rec := doRequest(store, sess.ID, okHandler, RequireAPIAuth(jwtService))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		token, err := jwtService.GenerateToken(uuid.New(), "alice", model.RoleUser)
		assert.NoError(t, err)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := ResolveSession(store)(RequireAPIAuth(jwtService)(func(c echo.Context) error {
			snap, ok := SnapshotFrom(c)
			assert.True(t, ok)
			assert.Equal(t, "alice", snap.Username)
			return c.String(http.StatusOK, "ok")
		}))
		assert.NoError(t, h(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous rejected with JSON 401", func(t *testing.T) {
		rec := doRequest(store, "", okHandler, RequireAPIAuth(jwtService))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer nonsense")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := ResolveSession(store)(RequireAPIAuth(jwtService)(okHandler))
		assert.NoError(t, h(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
