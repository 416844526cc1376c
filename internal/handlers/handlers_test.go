package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"Weblog/internal/app"
	"Weblog/internal/auth"
	dom "Weblog/internal/domain"
	"Weblog/internal/facts"
	"Weblog/internal/handlers"
	"Weblog/internal/service"
)

// In-memory repositories standing in for Postgres. Uniqueness behaves like
// the database constraint: enforced at insert, surfacing a 23505 error.

type memUserRepo struct {
	nextID int64
	users  []dom.User
	err    error
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	if r.err != nil {
		return dom.User{}, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *memUserRepo) Create(_ context.Context, username, email, passwordHash string) (dom.User, error) {
	if r.err != nil {
		return dom.User{}, r.err
	}
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return dom.User{}, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
		}
	}
	r.nextID++
	u := dom.User{ID: r.nextID, Username: username, Email: email, PasswordHash: passwordHash}
	r.users = append(r.users, u)
	return u, nil
}

type memPostRepo struct {
	nextID  int64
	posts   []dom.Post
	byUser  map[int64]string
	err     error
	creates int
}

func (r *memPostRepo) Create(_ context.Context, userID int64, title, content string) (dom.Post, error) {
	r.creates++
	if r.err != nil {
		return dom.Post{}, r.err
	}
	r.nextID++
	p := dom.Post{ID: r.nextID, UserID: userID, Username: r.byUser[userID], Title: title, Content: content, CreatedAt: time.Now()}
	r.posts = append([]dom.Post{p}, r.posts...)
	return p, nil
}

func (r *memPostRepo) List(_ context.Context) ([]dom.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.posts, nil
}

func (r *memPostRepo) Search(_ context.Context, q string) ([]dom.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	q = strings.ToLower(q)
	var out []dom.Post
	for _, p := range r.posts {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

type testApp struct {
	router      *gin.Engine
	sessions    *auth.Store
	users       *memUserRepo
	posts       *memPostRepo
	redis       *miniredis.Miniredis
	authHandler *handlers.AuthHandler
	postHandler *handlers.PostHandler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	factSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":"Honey never spoils."}`))
	}))
	t.Cleanup(factSrv.Close)

	users := &memUserRepo{}
	posts := &memPostRepo{byUser: map[int64]string{}}
	sessions := auth.NewStore(rdb, 24*time.Hour)

	ah := handlers.NewAuthHandler(sessions, service.NewUserService(users))
	ph := handlers.NewPostHandler(service.NewPostService(posts, nil), facts.NewClient(factSrv.URL))

	r := gin.New()
	r.LoadHTMLGlob("../../web/templates/*.tmpl")
	r.Use(auth.Sessions(sessions))
	app.Routes(r, ah, ph)

	return &testApp{router: r, sessions: sessions, users: users, posts: posts, redis: mr, authHandler: ah, postHandler: ph}
}

// newBareRouter returns an engine with templates loaded but no middleware.
func newBareRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.LoadHTMLGlob("../../web/templates/*.tmpl")
	return r
}

// do sends a request, carrying cookies across calls like a browser would.
func (a *testApp) do(t *testing.T, method, path string, form url.Values, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	merged := cookies
	for _, ck := range w.Result().Cookies() {
		replaced := false
		for i, old := range merged {
			if old.Name == ck.Name {
				merged[i] = ck
				replaced = true
			}
		}
		if !replaced {
			merged = append(merged, ck)
		}
	}
	return w, merged
}

func (a *testApp) register(t *testing.T, username, email, password string, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	return a.do(t, http.MethodPost, "/register", url.Values{
		"username": {username}, "email": {email}, "password": {password},
	}, cookies)
}

func (a *testApp) login(t *testing.T, username, password string, cookies []*http.Cookie) (*httptest.ResponseRecorder, []*http.Cookie) {
	t.Helper()
	return a.do(t, http.MethodPost, "/login", url.Values{
		"username": {username}, "password": {password},
	}, cookies)
}
