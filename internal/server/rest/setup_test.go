package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkshare/internal/logging"
	"github.com/dmitrijs2005/linkshare/internal/server/auth"
	"github.com/dmitrijs2005/linkshare/internal/server/config"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkshare/internal/server/services"
	"github.com/dmitrijs2005/linkshare/internal/server/storetest"
	"github.com/stretchr/testify/require"
	"github.com/thejerf/abtime"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	db      *sql.DB
	clock   *abtime.ManualTime
	users   *services.UserService
	server  *HTTPServer
	handler http.Handler
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.RateLimit = 0
	cfg.ShutdownTimeout = time.Second
	return cfg
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	db := storetest.OpenSQLite(t)
	rm := repomanager.NewSQLiteRepositoryManager()
	clock := abtime.NewManualAtTime(time.Now())

	tokens, err := auth.NewTokenService([]byte("test-secret"), 24*time.Hour, clock)
	require.NoError(t, err)

	us, err := services.NewUserService(db, rm, auth.NewBcryptHasher(bcrypt.MinCost), tokens)
	require.NoError(t, err)
	as := services.NewArticleService(db, rm)

	srv := NewHTTPServer(cfg, logging.Nop{}, us, as, tokens)
	return &testEnv{db: db, clock: clock, users: us, server: srv, handler: srv.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, username, password string) int64 {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp registerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.UserID
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp services.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func (e *testEnv) seedAdmin(t *testing.T) string {
	t.Helper()
	_, err := e.users.EnsureAdmin(context.Background(), "adminpass")
	require.NoError(t, err)
	return e.login(t, "admin", "adminpass")
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error
}

func newRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
