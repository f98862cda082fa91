package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kultivateAPI/handlers"
	"kultivateAPI/internal/user"
	"kultivateAPI/services"
	"kultivateAPI/tests/helpers"
)

const testJWTSecret = "test-secret-key-for-testing-only"

func TestRegisterAndLogin(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	authHandler := handlers.NewAuthHandler(authService)

	suffix := time.Now().Format("20060102150405")
	email := "test" + suffix + "@example.com"
	username := "testuser" + suffix

	// Register
	body := `{"email": "` + email + `", "username": "` + username + `", "password": "supersecret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()

	authHandler.Register(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created user.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, email, created.Email)
	assert.Equal(t, username, created.Username)
	assert.Equal(t, user.RoleUser, created.Role)
	assert.True(t, created.IsActive)

	// The password hash must never appear in the response
	assert.NotContains(t, rr.Body.String(), "password")

	// Login with the right password
	loginBody := `{"email": "` + email + `", "password": "supersecret1"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(loginBody))
	rr = httptest.NewRecorder()

	authHandler.Login(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var token user.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &token))
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "bearer", token.TokenType)

	// The token resolves back to the registered user
	gotID, err := authService.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, gotID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	authHandler := handlers.NewAuthHandler(authService)

	suffix := time.Now().Format("20060102150405")
	email := "testdup" + suffix + "@example.com"

	body := `{"email": "` + email + `", "username": "testdupa` + suffix + `", "password": "supersecret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	authHandler.Register(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	// Same email, different username
	body = `{"email": "` + email + `", "username": "testdupb` + suffix + `", "password": "supersecret1"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rr = httptest.NewRecorder()
	authHandler.Register(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRegister_Validation(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	authHandler := handlers.NewAuthHandler(authService)

	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"email": "nope", "username": "testuser", "password": "supersecret1"}`},
		{"short username", `{"email": "test@example.com", "username": "ab", "password": "supersecret1"}`},
		{"short password", `{"email": "test@example.com", "username": "testuser", "password": "short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			authHandler.Register(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	authHandler := handlers.NewAuthHandler(authService)

	suffix := time.Now().Format("20060102150405")
	email := "testwp" + suffix + "@example.com"

	body := `{"email": "` + email + `", "username": "testwp` + suffix + `", "password": "supersecret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rr := httptest.NewRecorder()
	authHandler.Register(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	loginBody := `{"email": "` + email + `", "password": "wrongpassword"}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(loginBody))
	rr = httptest.NewRecorder()
	authHandler.Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	authHandler := handlers.NewAuthHandler(authService)

	loginBody := `{"email": "test-nobody@example.com", "password": "supersecret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(loginBody))
	rr := httptest.NewRecorder()
	authHandler.Login(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
