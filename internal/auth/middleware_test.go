package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewStore(rdb, 24*time.Hour)

	r := gin.New()
	r.Use(Sessions(store))
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, SessionFromContext(c).ID)
	})
	r.GET("/protected", RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, "user %d", SessionFromContext(c).UserID)
	})
	return r, store
}

func TestSessions_CreatesOnFirstRequest(t *testing.T) {
	r, store := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	assert.Equal(t, CookieName, ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)
	assert.Equal(t, 24*60*60, ck.MaxAge)
	assert.Equal(t, w.Body.String(), ck.Value, "handler sees the created session")

	sess, err := store.Get(t.Context(), ck.Value)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
}

func TestSessions_ReusesValidCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	first := w.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(first)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, first.Value, w2.Body.String())
	assert.Empty(t, w2.Result().Cookies(), "no new cookie for a known session")
}

func TestSessions_ReplacesUnknownCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeefdeadbeefdeadbeefdeadbeef"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "deadbeefdeadbeefdeadbeefdeadbeef", cookies[0].Value)
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireLogin_PassesAuthenticated(t *testing.T) {
	r, store := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	ck := w.Result().Cookies()[0]

	_, err := store.SetUser(t.Context(), ck.Value, 7, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(ck)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "user 7", w2.Body.String())
}
