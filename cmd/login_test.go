package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresSession(t *testing.T) {
	token := tokenExpiring(t, time.Now().Add(time.Hour))
	api := setupEnv(t, map[string]http.HandlerFunc{
		"POST /login": reply(http.StatusOK, map[string]string{"access_token": token, "token_type": "bearer", "username": "ada"}),
	})

	out, err := executeCommand(rootCmd, "login", "--email", "ada@example.com", "--password", "hunter2")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, ada!")

	sent := api.sent(http.MethodPost, "/login")
	require.Len(t, sent, 1)
	var body map[string]string
	require.NoError(t, json.Unmarshal(sent[0].Body, &body))
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "hunter2", body["password"])

	s := loadStoredSession(t)
	require.NotNil(t, s)
	assert.Equal(t, token, s.Token)
	assert.Equal(t, "ada", s.Username)
}

func TestLoginPromptsForMissingCredentials(t *testing.T) {
	token := tokenExpiring(t, time.Now().Add(time.Hour))
	setupEnv(t, map[string]http.HandlerFunc{
		"POST /login": reply(http.StatusOK, map[string]string{"access_token": token, "username": "ada"}),
	})

	out, err := executeCommandWithInput(rootCmd, "ada@example.com\nhunter2\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Welcome, ada!")
}

func TestLoginFailureShowsServerDetail(t *testing.T) {
	setupEnv(t, map[string]http.HandlerFunc{
		"POST /login": reply(http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"}),
	})

	_, err := executeCommand(rootCmd, "login", "-e", "ada@example.com", "-p", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect email or password")
	assert.Nil(t, loadStoredSession(t))
}

func TestLogoutRemovesSession(t *testing.T) {
	setupEnv(t, nil)
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	out, err := executeCommand(rootCmd, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.Nil(t, loadStoredSession(t))

	out, err = executeCommand(rootCmd, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in.")
}

func TestRegisterNormalizesGender(t *testing.T) {
	api := setupEnv(t, map[string]http.HandlerFunc{
		"POST /register": reply(http.StatusOK, map[string]string{"message": "ok"}),
	})

	out, err := executeCommand(rootCmd, "register",
		"--username", "ada", "--email", "ada@example.com", "--password", "pw",
		"--age", "36", "--weight", "61.5", "--gender", "f")
	require.NoError(t, err)
	assert.Contains(t, out, "Registration successful! Please log in.")

	sent := api.sent(http.MethodPost, "/register")
	require.Len(t, sent, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(sent[0].Body, &body))
	assert.Equal(t, "Female", body["gender"])
	assert.EqualValues(t, 36, body["age"])
}

func TestRegisterRejectsBadInputWithoutCallingServer(t *testing.T) {
	api := setupEnv(t, nil)

	_, err := executeCommand(rootCmd, "register",
		"--username", "ada", "--email", "ada@example.com", "--password", "pw",
		"--age", "36", "--weight", "61.5", "--gender", "robot")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "--gender"))
	assert.Empty(t, api.sent(http.MethodPost, "/register"))
}

func TestResetPasswordRequest(t *testing.T) {
	api := setupEnv(t, map[string]http.HandlerFunc{
		"POST /reset-password-request": reply(http.StatusOK, map[string]string{"message": "sent"}),
	})

	out, err := executeCommand(rootCmd, "reset-password", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "reset link")
	require.Len(t, api.sent(http.MethodPost, "/reset-password-request"), 1)
}
