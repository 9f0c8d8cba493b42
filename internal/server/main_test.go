package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"blogapi/internal/auth"
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "secret-pass"

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	cfg    *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "test",
		AccessTokenSecret:  "test-access-secret-0123456789abcdef",
		RefreshTokenSecret: "test-refresh-secret-0123456789abcdef",
		AccessTokenTTL:     10 * time.Minute,
		RefreshTokenTTL:    24 * time.Hour,
		TokenIssuer:        "blogapi",
		BcryptCost:         bcrypt.MinCost,
		CookieSecure:       true,
		DBAutoMigrate:      true,
	}
}

// newTestEnv wires a Server over a migrated SQLite file and miniredis.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := testConfig()
	dsn := filepath.Join(t.TempDir(), "server.db") + "?_foreign_keys=on"
	db, err := database.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = cache.Close()
		cache.SetClient(nil)
	})

	s, err := NewServerWithDeps(cfg, db, cache.GetClient())
	require.NoError(t, err)

	return &testEnv{server: s, app: s.NewApp(), db: db, cfg: cfg}
}

func (e *testEnv) seedUser(t *testing.T, name string, typ models.UserType) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Name: name, Email: name + "@blog.dev", PasswordHash: hash, Type: typ}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) seedPost(t *testing.T, author *models.User, title string, hidden bool) *models.Post {
	t.Helper()
	p := &models.Post{Title: title, Content: "a body long enough", AuthorID: author.ID, IsHidden: hidden}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := e.server.tokens.IssueAccessToken(u.ID)
	require.NoError(t, err)
	return tok
}

type testResponse struct {
	status  int
	body    []byte
	header  http.Header
	cookies []*http.Cookie
}

func (r testResponse) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.body, &out), string(r.body))
	return out
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any, cookies ...*http.Cookie) testResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return e.send(t, req)
}

func (e *testEnv) doWithHeaders(t *testing.T, method, path string, headers map[string]string) testResponse {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) testResponse {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return testResponse{status: resp.StatusCode, body: raw, header: resp.Header, cookies: resp.Cookies()}
}
