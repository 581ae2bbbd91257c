package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/pkg/logger"
	"presence/backend/internal/repository/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t     *testing.T
	app   *web.App
	clock atomic.Int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{t: t, app: web.NewApp()}
	s.clock.Store(1000)

	r := NewRouter(s.app, MemoryStores(memory.NewDB()), nil, Config{
		Auth:  auth.Config{Key: "test-key", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost},
		Clock: func() time.Time { return time.Unix(s.clock.Load(), 0) },
	}, logger.NewNop())
	require.NoError(t, r.Init())

	return s
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	return rec
}

// signUp registers username and returns a bearer token for it.
func (s *testServer) signUp(username string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/user/register", "", `{"username":"`+username+`","password":"secret"}`)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	form := url.Values{"username": {username}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusAccepted, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(s.t, "Bearer", body["token_type"])
	return body["access_token"]
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Status bool   `json:"status"`
		Code   string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Status)
	return body.Code
}

func TestRouter_AliceScenario(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice")

	rec := s.do(http.MethodPost, "/employee", token, `{"name":"Alice","title":"Eng","current_task":"build"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"name":"Alice","title":"Eng","current_task":"build"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/employee/enter", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enter_timestamp":1000,"leave_timestamp":null}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/employee/enter", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "already_present", errorCode(t, rec))

	s.clock.Store(1050)
	rec = s.do(http.MethodPost, "/employee/leave", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"enter_timestamp":1000,"leave_timestamp":1050}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/employee/leave", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "not_present", errorCode(t, rec))
}

func TestRouter_Register(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/user/register", "", `{"username":"alice","password":"secret"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"User alice created"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/user/register", "", `{"username":"alice","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "username_taken", errorCode(t, rec))

	rec = s.do(http.MethodPost, "/user/register", "", `{"username":"bob"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_failed", errorCode(t, rec))
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer(t)
	s.signUp("alice")

	rec := s.do(http.MethodPost, "/user/login", "", `{"username":"alice","password":"secret"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code, "json body is accepted too")

	rec = s.do(http.MethodPost, "/user/login", "", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_credentials", errorCode(t, rec))

	rec = s.do(http.MethodPost, "/user/login", "", `{"username":"nobody","password":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_credentials", errorCode(t, rec))
}

func TestRouter_Logout(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice")

	rec := s.do(http.MethodPost, "/user/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/employee", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthenticated", errorCode(t, rec))
}

func TestRouter_Unauthenticated(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/employee"},
		{http.MethodPost, "/employee"},
		{http.MethodPut, "/employee"},
		{http.MethodPost, "/employee/enter"},
		{http.MethodPost, "/employee/leave"},
		{http.MethodGet, "/employee/co-workers"},
		{http.MethodPost, "/user/logout"},
	} {
		rec := s.do(tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.path)

		rec = s.do(tc.method, tc.path, "garbage", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.path)
	}
}

func TestRouter_Profile(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice")

	rec := s.do(http.MethodGet, "/employee", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "employee_not_found", errorCode(t, rec))

	rec = s.do(http.MethodPut, "/employee", token, `{"name":"Alice"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/employee", token, `{"title":"Eng"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPost, "/employee", token, `{"name":"Alice","title":"Eng","current_task":"build"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/employee", token, `{"name":"Alice","title":"Eng","current_task":"build"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "employee_exists", errorCode(t, rec))

	rec = s.do(http.MethodGet, "/employee", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Alice","title":"Eng","current_task":"build"}`, rec.Body.String())

	rec = s.do(http.MethodPut, "/employee", token, `{"name":"Alice","current_task":"review"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Alice","title":"","current_task":"review"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/employee", token, "")
	assert.JSONEq(t, `{"name":"Alice","title":"","current_task":"review"}`, rec.Body.String())
}

func TestRouter_AttendanceNeedsProfile(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("alice")

	for _, path := range []string{"/employee/enter", "/employee/leave"} {
		rec := s.do(http.MethodPost, path, token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "employee_not_found", errorCode(t, rec))
	}
}

func TestRouter_CoWorkers(t *testing.T) {
	s := newTestServer(t)

	profiles := []struct{ username, body string }{
		{"alice", `{"name":"Alice","title":"Eng","current_task":"build"}`},
		{"bob", `{"name":"Bob","title":"Ops","current_task":"deploy"}`},
		{"carol", `{"name":"Carol","title":"PM","current_task":"plan"}`},
	}
	tokens := make(map[string]string)
	for _, p := range profiles {
		tokens[p.username] = s.signUp(p.username)
		rec := s.do(http.MethodPost, "/employee", tokens[p.username], p.body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(http.MethodGet, "/employee/co-workers", tokens["alice"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	for _, u := range []string{"alice", "bob", "carol"} {
		rec = s.do(http.MethodPost, "/employee/enter", tokens[u], "")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec = s.do(http.MethodPost, "/employee/leave", tokens["bob"], "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/employee/co-workers", tokens["alice"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Carol","title":"PM","current_task":"plan"}]`, rec.Body.String())

	rec = s.do(http.MethodGet, "/employee/co-workers", tokens["bob"], "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"name":"Alice","title":"Eng","current_task":"build"},
		{"name":"Carol","title":"PM","current_task":"plan"}
	]`, rec.Body.String())
}

func TestRouter_Misc(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/employee", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
