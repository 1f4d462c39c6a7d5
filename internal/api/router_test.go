package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realworld/conduit-api/internal/core/domain"
	"github.com/realworld/conduit-api/internal/core/service"
	"github.com/realworld/conduit-api/internal/infrastructure/db/memory"
	"github.com/realworld/conduit-api/internal/infrastructure/http/handlers"
)

type userEnvelope struct {
	User struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Bio      string `json:"bio"`
		Image    string `json:"image"`
		Token    string `json:"token"`
	} `json:"user"`
}

func newTestRouter(t *testing.T, health *handlers.HealthDependenciesHandler) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()
	users := service.NewUserService(memory.NewUserRepository(), log)

	return NewRouter(Dependencies{
		Users:    users,
		Tags:     service.NewTagService(memory.NewTagRepository("dragons", "training"), nil, log),
		Tokens:   service.NewTokenService("router-test-secret", time.Hour),
		Health:   health,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	})
}

func do(t *testing.T, e *echo.Echo, method, path, body, authorization string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func register(t *testing.T, e *echo.Echo, username, email, password string) userEnvelope {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/users/register",
		`{"user":{"username":"`+username+`","email":"`+email+`","password":"`+password+`"}}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env userEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRouter_TagsArePublic(t *testing.T) {
	e := newTestRouter(t, nil)

	for name, auth := range map[string]string{
		"no header":      "",
		"garbage token":  "Bearer not.a.jwt",
		"malformed":      "Bearer",
		"unknown scheme": "Basic dXNlcjpwYXNz",
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, e, http.MethodGet, "/tags", "", auth)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"tags":["dragons","training"]}`, rec.Body.String())
		})
	}
}

func TestRouter_GuardedRoutesRejectAnonymous(t *testing.T) {
	e := newTestRouter(t, nil)

	cases := []struct {
		method, auth string
	}{
		{http.MethodGet, ""},
		{http.MethodGet, "Bearer not.a.jwt"},
		{http.MethodGet, "Token"},
		{http.MethodPut, ""},
	}
	for _, tc := range cases {
		rec := do(t, e, tc.method, "/users/user", `{"user":{"bio":"x"}}`, tc.auth)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s with %q", tc.method, tc.auth)
		assert.Equal(t, "Unauthorized", errorMessage(t, rec))
	}
}

func TestRouter_RegisterThenAccessProtectedRoutes(t *testing.T) {
	e := newTestRouter(t, nil)

	jake := register(t, e, "jake", "jake@jake.jake", "jakejake")
	assert.Equal(t, "jake", jake.User.Username)
	assert.NotEmpty(t, jake.User.Token)

	for _, scheme := range []string{"Bearer ", "Token ", "bearer "} {
		rec := do(t, e, http.MethodGet, "/users/user", "", scheme+jake.User.Token)
		require.Equal(t, http.StatusOK, rec.Code, scheme)

		var current userEnvelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
		assert.Equal(t, jake.User.ID, current.User.ID)
		assert.Equal(t, "jake@jake.jake", current.User.Email)
		assert.NotEmpty(t, current.User.Token)
	}

	rec := do(t, e, http.MethodPut, "/users/user",
		`{"user":{"bio":"I like to skateboard","image":"https://i.stack.imgur.com/xHWG8.jpg"}}`,
		"Bearer "+jake.User.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated userEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "I like to skateboard", updated.User.Bio)
	assert.Equal(t, "jake", updated.User.Username)
}

func TestRouter_PasswordChangeTakesEffect(t *testing.T) {
	e := newTestRouter(t, nil)
	jake := register(t, e, "jake", "jake@jake.jake", "jakejake")

	rec := do(t, e, http.MethodPut, "/users/user", `{"user":{"password":"newpassword"}}`, "Bearer "+jake.User.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodPost, "/users/login", `{"user":{"email":"jake@jake.jake","password":"jakejake"}}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, e, http.MethodPost, "/users/login", `{"user":{"email":"jake@jake.jake","password":"newpassword"}}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RegisterConflicts(t *testing.T) {
	e := newTestRouter(t, nil)
	register(t, e, "jake", "jake@jake.jake", "jakejake")

	for name, body := range map[string]string{
		"same email":    `{"user":{"username":"other","email":"jake@jake.jake","password":"x"}}`,
		"same username": `{"user":{"username":"jake","email":"other@jake.jake","password":"x"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/users/register", body, "")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, "Email or username is taken", errorMessage(t, rec))
		})
	}
}

func TestRouter_UpdateOntoAnotherUserConflicts(t *testing.T) {
	e := newTestRouter(t, nil)
	register(t, e, "jake", "jake@jake.jake", "jakejake")
	bob := register(t, e, "bob", "bob@example.com", "bobbob")

	rec := do(t, e, http.MethodPut, "/users/user", `{"user":{"email":"jake@jake.jake"}}`, "Bearer "+bob.User.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Email or username is taken", errorMessage(t, rec))
}

func TestRouter_LoginFailuresLookTheSame(t *testing.T) {
	e := newTestRouter(t, nil)
	register(t, e, "jake", "jake@jake.jake", "jakejake")

	unknown := do(t, e, http.MethodPost, "/users/login", `{"user":{"email":"nobody@jake.jake","password":"jakejake"}}`, "")
	wrong := do(t, e, http.MethodPost, "/users/login", `{"user":{"email":"jake@jake.jake","password":"nope"}}`, "")

	assert.Equal(t, http.StatusUnprocessableEntity, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, "Credentials are not valid", errorMessage(t, unknown))
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestRouter_BadPayloads(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodPost, "/users/register", `{"user":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid payload", errorMessage(t, rec))

	rec = do(t, e, http.MethodPost, "/users/register", `{"user":{"username":"jake","email":"not-an-email","password":"x"}}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "email")
}

func TestRouter_TokenForUnknownUserIsAnonymous(t *testing.T) {
	e := newTestRouter(t, nil)

	issuer := service.NewTokenService("router-test-secret", time.Hour)
	token, err := issuer.Sign(domain.Claims{UserID: 99, Username: "ghost", Email: "ghost@example.com"})
	require.NoError(t, err)

	rec := do(t, e, http.MethodGet, "/users/user", "", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	failing := handlers.DependencyCheck{Name: "postgres", Ping: func(context.Context) error { return errors.New("down") }}
	e := newTestRouter(t, handlers.NewHealthDependenciesHandler(failing))

	assert.Equal(t, http.StatusOK, do(t, e, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, e, http.MethodGet, "/health/ready", "", "").Code)

	do(t, e, http.MethodGet, "/tags", "", "")
	rec := do(t, e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "conduit_requests_total")
}

func TestRouter_ReadinessNotRegisteredWithoutChecks(t *testing.T) {
	e := newTestRouter(t, nil)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/health/ready", "", "").Code)
}

func TestRouter_LongPasswordsAreRejectedAsInput(t *testing.T) {
	e := newTestRouter(t, nil)
	long := strings.Repeat("a", 80)

	rec := do(t, e, http.MethodPost, "/users/register",
		`{"user":{"username":"jake","email":"jake@jake.jake","password":"`+long+`"}}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, errorMessage(t, rec), "password must be at most 72")

	jake := register(t, e, "jake", "jake@jake.jake", strings.Repeat("b", 72))

	rec = do(t, e, http.MethodPut, "/users/user", `{"user":{"password":"`+long+`"}}`, "Bearer "+jake.User.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, errorMessage(t, rec), "password must be at most 72")
}

func TestRouter_MultibyteLongPasswordIsRejectedAsInput(t *testing.T) {
	e := newTestRouter(t, nil)
	// 40 runes pass the field validator but take 80 bytes.
	long := strings.Repeat("é", 40)

	rec := do(t, e, http.MethodPost, "/users/register",
		`{"user":{"username":"jake","email":"jake@jake.jake","password":"`+long+`"}}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, errorMessage(t, rec), "at most 72 bytes")
}

func TestRouter_RegisterMissingFieldsIsNotALoginFailure(t *testing.T) {
	e := newTestRouter(t, nil)

	rec := do(t, e, http.MethodPost, "/users/register", `{"user":{"username":"jake","email":"jake@jake.jake"}}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEqual(t, "Credentials are not valid", errorMessage(t, rec))
	assert.Contains(t, errorMessage(t, rec), "password is required")
}

func TestRouter_MetricsIncludeCustomCollectors(t *testing.T) {
	e := newTestRouter(t, nil)

	do(t, e, http.MethodGet, "/tags", "", "")
	do(t, e, http.MethodGet, "/users/user", "", "")
	do(t, e, http.MethodPost, "/users/login", `{"user":{"email":"nobody@jake.jake","password":"x"}}`, "")

	rec := do(t, e, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "conduit_auth_resolutions_total")
	assert.Contains(t, body, "conduit_auth_guard_rejections_total")
	assert.Contains(t, body, "conduit_credential_operations_total")
}
