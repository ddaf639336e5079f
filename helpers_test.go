package auth_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	auth "github.com/goliatone/go-user-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "correct horse battery staple"

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := auth.OpenDatabase(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, auth.EnsureSchema(context.Background(), db))
	return db
}

func testOptions() *auth.Options {
	opts := auth.DefaultOptions()
	opts.SessionSecret = testSecret
	return opts
}

func fastPasswords() auth.PasswordAuthenticator {
	return auth.BcryptPasswords{Cost: bcrypt.MinCost}
}

type testServer struct {
	server router.Server[*fiber.App]
	app    *fiber.App
	repo   auth.RepositoryManager
	opts   *auth.Options
	codec  auth.SessionCodec
}

func newTestServer(t *testing.T, extra ...auth.ServerOption) *testServer {
	t.Helper()

	opts := testOptions()
	repo := auth.NewRepositoryManager(newTestDB(t))

	codec, err := auth.NewSessionCodec(opts)
	require.NoError(t, err)

	serverOpts := append([]auth.ServerOption{
		auth.WithPasswordAuthenticator(fastPasswords()),
		auth.WithSessionCodec(codec),
		auth.WithActivitySink(auth.ActivitySinkFunc(func(context.Context, auth.ActivityEvent) error { return nil })),
	}, extra...)

	server, err := auth.NewServer(opts, repo, serverOpts...)
	require.NoError(t, err)

	return &testServer{server: server, app: server.WrappedRouter(), repo: repo, opts: opts, codec: codec}
}

// newRouterApp returns a bare fiber backed router that renders the
// embedded views
func newRouterApp() router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(*fiber.App) *fiber.App {
		return fiber.New(fiber.Config{Views: auth.NewViewEngine(false)})
	})
}

func (s *testServer) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (s *testServer) get(t *testing.T, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(t, req)
}

func (s *testServer) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(t, req)
}

func (s *testServer) register(t *testing.T, email, password string) *http.Response {
	t.Helper()
	return s.postForm(t, "/users", url.Values{"email": {email}, "password": {password}})
}

func (s *testServer) login(t *testing.T, email, password string) *http.Response {
	t.Helper()
	return s.postForm(t, "/users/login", url.Values{"email": {email}, "password": {password}})
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == auth.DefaultCookieName {
			return c
		}
	}
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func loginLocation(message string) string {
	return auth.RedirectWithMessage("/users/login", message)
}
