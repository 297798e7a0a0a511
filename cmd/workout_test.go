package cmd

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/fitflex/internal/api"
)

var testExercises = []api.Exercise{
	{ID: 1, Name: "Squats", Category: "Strength"},
	{ID: 4, Name: "Plank", Category: "Core"},
	{ID: 6, Name: "Lunges", Category: "Strength"},
	{ID: 7, Name: "Burpees", Category: "Cardio"},
	{ID: 9, Name: "Calf Raises", Category: "Strength"},
}

var testHistory = []api.WorkoutRecord{
	{ID: 3, Name: "Leg Day", Date: "2024-03-10", TotalDuration: 30, Exercises: []api.RecordExercise{
		{ExerciseID: 6, Name: "Lunges", Duration: 10},
		{ExerciseID: 1, Name: "Squats", Duration: 20},
	}},
	{ID: 5, Name: "Core", Date: "2024-03-11T08:30:00", TotalDuration: 15, Exercises: []api.RecordExercise{
		{ExerciseID: 4, Name: "Plank", Duration: 15},
	}},
}

func decodePayload(t *testing.T, c call) api.WorkoutPayload {
	t.Helper()
	var p api.WorkoutPayload
	require.NoError(t, json.Unmarshal(c.Body, &p))
	return p
}

func TestWorkoutAddFromPresetWithExtras(t *testing.T) {
	token := tokenExpiring(t, time.Now().Add(time.Hour))
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"GET /exercises": reply(http.StatusOK, testExercises),
		"POST /workouts": reply(http.StatusOK, api.WorkoutRecord{ID: 11, Name: "Leg Day"}),
	})
	storeSession(t, token)

	out, err := executeCommand(rootCmd, "workout", "add",
		"--preset", "Leg Day", "--date", "2024-03-12",
		"--exercise", "Lunges=12", "--exercise", "burpees", "--exercise", "4=5")
	require.NoError(t, err)
	assert.Contains(t, out, "Workout saved successfully!")

	sent := fake.sent(http.MethodPost, "/workouts")
	require.Len(t, sent, 1)
	assert.Equal(t, "Bearer "+token, sent[0].Auth)
	p := decodePayload(t, sent[0])
	assert.Equal(t, "Leg Day", p.Name)
	assert.Equal(t, "2024-03-12", p.Date)
	// Preset matches come first in catalog order, extras follow as added.
	assert.Equal(t, []api.ExerciseEntry{
		{ExerciseID: 6, Duration: 12},
		{ExerciseID: 9, Duration: 15},
		{ExerciseID: 7, Duration: 15},
		{ExerciseID: 4, Duration: 5},
	}, p.Exercises)
}

func TestWorkoutAddExpiredSessionSendsNothing(t *testing.T) {
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"GET /exercises": reply(http.StatusOK, testExercises),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(-time.Minute)))

	_, err := executeCommand(rootCmd, "workout", "add", "--name", "Quick", "--exercise", "Plank=5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session has expired")
	assert.Empty(t, fake.sent(http.MethodPost, "/workouts"))
	assert.Empty(t, fake.sent(http.MethodGet, "/exercises"))
	assert.Nil(t, loadStoredSession(t), "expired session should be dropped")
}

func TestWorkoutAddRejectsInvalidDraft(t *testing.T) {
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"GET /exercises": reply(http.StatusOK, testExercises),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	_, err := executeCommand(rootCmd, "workout", "add", "--name", "Quick", "--exercise", "Plank=0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid workout")
	assert.Empty(t, fake.sent(http.MethodPost, "/workouts"))
}

func TestWorkoutAddServerFailureUsesDetail(t *testing.T) {
	setupEnv(t, map[string]http.HandlerFunc{
		"GET /exercises": reply(http.StatusOK, testExercises),
		"POST /workouts": reply(http.StatusBadRequest, map[string]string{"detail": "Exercise not found"}),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	_, err := executeCommand(rootCmd, "workout", "add", "--name", "Quick", "--exercise", "Plank=5")
	require.Error(t, err)
	assert.Equal(t, "Failed to save workout: Exercise not found", err.Error())
}

func TestWorkoutListMarkdown(t *testing.T) {
	setupEnv(t, map[string]http.HandlerFunc{
		"GET /workouts": reply(http.StatusOK, testHistory),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	out, err := executeCommand(rootCmd, "workout", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "## Leg Day (#3)")
	assert.Contains(t, out, "## Core (#5)")
}

func TestWorkoutListJSON(t *testing.T) {
	setupEnv(t, map[string]http.HandlerFunc{
		"GET /workouts": reply(http.StatusOK, testHistory),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	out, err := executeCommand(rootCmd, "workout", "list", "--format", "json")
	require.NoError(t, err)
	var decoded struct {
		Workouts []api.WorkoutRecord `json:"workouts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Workouts, 2)
	assert.Equal(t, "Leg Day", decoded.Workouts[0].Name)
}

func TestWorkoutListUnauthorizedDropsSession(t *testing.T) {
	setupEnv(t, map[string]http.HandlerFunc{
		"GET /workouts": reply(http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"}),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	_, err := executeCommand(rootCmd, "workout", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not validate credentials")
	assert.Nil(t, loadStoredSession(t))
}

func TestWorkoutEditSendsNormalizedDraft(t *testing.T) {
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"GET /workouts":   reply(http.StatusOK, testHistory),
		"PUT /workouts/5": reply(http.StatusOK, testHistory[1]),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	out, err := executeCommand(rootCmd, "workout", "edit", "5", "--name", "Core+", "--duration", "plank=25")
	require.NoError(t, err)
	assert.Contains(t, out, "Workout updated!")

	sent := fake.sent(http.MethodPut, "/workouts/5")
	require.Len(t, sent, 1)
	p := decodePayload(t, sent[0])
	assert.Equal(t, "Core+", p.Name)
	assert.Equal(t, "2024-03-11", p.Date)
	assert.Equal(t, []api.ExerciseEntry{{ExerciseID: 4, Duration: 25}}, p.Exercises)
	// The history is reloaded after a successful save.
	assert.Len(t, fake.sent(http.MethodGet, "/workouts"), 2)
}

func TestWorkoutEditReportsSuccessWhenReloadFails(t *testing.T) {
	var loads atomic.Int32
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"GET /workouts": func(w http.ResponseWriter, r *http.Request) {
			if loads.Add(1) == 1 {
				reply(http.StatusOK, testHistory)(w, r)
				return
			}
			reply(http.StatusInternalServerError, map[string]string{"detail": "database down"})(w, r)
		},
		"PUT /workouts/3": reply(http.StatusOK, testHistory[0]),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	out, err := executeCommand(rootCmd, "workout", "edit", "3", "--name", "Legs")
	require.NoError(t, err)
	assert.Contains(t, out, "Workout updated!")
	assert.NotContains(t, out, "Failed to load workouts")
	assert.Len(t, fake.sent(http.MethodPut, "/workouts/3"), 1)
	assert.EqualValues(t, 2, loads.Load())
}

func TestWorkoutEditByPosition(t *testing.T) {
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"GET /workouts":   reply(http.StatusOK, testHistory),
		"PUT /workouts/3": reply(http.StatusOK, testHistory[0]),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	_, err := executeCommand(rootCmd, "workout", "edit", "3", "--duration", "2=40")
	require.NoError(t, err)

	p := decodePayload(t, fake.sent(http.MethodPut, "/workouts/3")[0])
	assert.Equal(t, []api.ExerciseEntry{{ExerciseID: 6, Duration: 10}, {ExerciseID: 1, Duration: 40}}, p.Exercises)
}

func TestWorkoutEditUnknownID(t *testing.T) {
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"GET /workouts": reply(http.StatusOK, testHistory),
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	_, err := executeCommand(rootCmd, "workout", "edit", "42", "--name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no workout with id 42")
	assert.Empty(t, fake.sent(http.MethodPut, "/workouts/42"))
}

func TestWorkoutDeleteDeclinedSendsNothing(t *testing.T) {
	fake := setupEnv(t, nil)
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	out, err := executeCommandWithInput(rootCmd, "n\n", "workout", "delete", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this workout?")
	assert.Contains(t, out, "Nothing deleted.")
	assert.Empty(t, fake.sent(http.MethodDelete, "/workouts/3"))
}

func TestWorkoutDeleteConfirmed(t *testing.T) {
	fake := setupEnv(t, map[string]http.HandlerFunc{
		"DELETE /workouts/3": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
	})
	storeSession(t, tokenExpiring(t, time.Now().Add(time.Hour)))

	out, err := executeCommandWithInput(rootCmd, "y\n", "workout", "delete", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Workout deleted!")
	assert.Len(t, fake.sent(http.MethodDelete, "/workouts/3"), 1)

	out, err = executeCommand(rootCmd, "workout", "delete", "3", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "Are you sure")
	assert.Len(t, fake.sent(http.MethodDelete, "/workouts/3"), 2)
}

func TestWorkoutRequiresLogin(t *testing.T) {
	setupEnv(t, nil)

	_, err := executeCommand(rootCmd, "workout", "list")
	require.ErrorIs(t, err, errNotLoggedIn)
}
