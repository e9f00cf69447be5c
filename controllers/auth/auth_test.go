package authController

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	authValidator "learnhub/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: bcrypt.MinCost}
	database.Database = database.DbInstance{Db: database.OpenTestDB(t)}

	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	app.Get("/auth/me", middleware.JWTMiddleware, Me)
	app.Get("/auth/login-history", middleware.JWTMiddleware, LoginHistory)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func signup(t *testing.T, app *fiber.App, email, role string) string {
	t.Helper()
	status, env := do(t, app, http.MethodPost, "/auth/signup",
		`{"name":"Ada Lovelace","email":"`+email+`","password":"correct-horse","role":"`+role+`"}`, "")
	require.Equal(t, fiber.StatusCreated, status, env.Message)

	var data struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func TestSignupDefaultsToStudent(t *testing.T) {
	app := newAuthApp(t)
	token := signup(t, app, "Ada@Example.com", "")

	status, env := do(t, app, http.MethodGet, "/auth/me", "", token)
	require.Equal(t, fiber.StatusOK, status)
	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)

	status, _ = do(t, app, http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"correct-horse"}`, "")
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestSignupRejectsAdminRole(t *testing.T) {
	app := newAuthApp(t)
	status, env := do(t, app, http.MethodPost, "/auth/signup",
		`{"name":"Eve","email":"eve@example.com","password":"correct-horse","role":"ADMIN"}`, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(env.Data), "role")
}

func TestLoginBlocksAfterRepeatedFailures(t *testing.T) {
	app := newAuthApp(t)
	signup(t, app, "tutor@example.com", models.RoleTutor)

	for i := 0; i < maxFailedLogins; i++ {
		status, env := do(t, app, http.MethodPost, "/auth/login", `{"email":"tutor@example.com","password":"wrong"}`, "")
		require.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, "Wrong Password", env.Message)
	}

	status, env := do(t, app, http.MethodPost, "/auth/login", `{"email":"tutor@example.com","password":"correct-horse"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, env.Message, "temporarily blocked")

	past := time.Now().Add(-time.Second)
	require.NoError(t, database.Database.Db.Model(&models.User{}).
		Where("email = ?", "tutor@example.com").
		Update("blocked_until", &past).Error)

	status, env = do(t, app, http.MethodPost, "/auth/login", `{"email":"tutor@example.com","password":"correct-horse"}`, "")
	require.Equal(t, fiber.StatusOK, status, env.Message)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "tutor@example.com").First(&user).Error)
	assert.False(t, user.IsBlocked)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.NotNil(t, user.LastLogin)
}

func TestLoginUnknownEmail(t *testing.T) {
	app := newAuthApp(t)
	status, env := do(t, app, http.MethodPost, "/auth/login", `{"email":"nobody@example.com","password":"x"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials!", env.Message)
}

func TestLoginHistoryRecordsSuccessfulLogins(t *testing.T) {
	app := newAuthApp(t)
	token := signup(t, app, "student@example.com", "")

	for i := 0; i < 2; i++ {
		status, _ := do(t, app, http.MethodPost, "/auth/login", `{"email":"student@example.com","password":"correct-horse"}`, "")
		require.Equal(t, fiber.StatusOK, status)
	}
	do(t, app, http.MethodPost, "/auth/login", `{"email":"student@example.com","password":"nope"}`, "")

	status, env := do(t, app, http.MethodGet, "/auth/login-history?limit=1", "", token)
	require.Equal(t, fiber.StatusOK, status)

	var data struct {
		History    []models.LoginTracking `json:"history"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.EqualValues(t, 2, data.Pagination.Total)
	assert.EqualValues(t, 2, data.Pagination.TotalPages)
	require.Len(t, data.History, 1)
	assert.NotEmpty(t, data.History[0].IPAddress)
}
