package api

// Exercise is one entry of the server's exercise catalog.
type Exercise struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// ExerciseEntry is one exercise line of a create or update payload.
type ExerciseEntry struct {
	ExerciseID int `json:"exercise_id"`
	Duration   int `json:"duration"`
}

// WorkoutPayload is the body of POST /workouts and PUT /workouts/{id}.
type WorkoutPayload struct {
	Name      string          `json:"name"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Exercises []ExerciseEntry `json:"exercises"`
}

// RecordExercise is an exercise line as returned by GET /workouts.
type RecordExercise struct {
	ExerciseID int    `json:"exercise_id"`
	Name       string `json:"name"`
	Duration   int    `json:"duration"`
}

// WorkoutRecord is a stored workout. TotalDuration is computed by the server.
type WorkoutRecord struct {
	ID            int              `json:"id"`
	UserID        int              `json:"user_id"`
	Name          string           `json:"name"`
	Date          string           `json:"date"`
	Exercises     []RecordExercise `json:"exercises"`
	TotalDuration int              `json:"total_duration"`
}

// DashboardStats is the aggregate read model behind GET /dashboard/stats.
type DashboardStats struct {
	TotalWorkouts    int     `json:"total_workouts"`
	TotalDuration    int     `json:"total_duration"`
	AverageDuration  float64 `json:"average_duration"`
	WorkoutsThisWeek int     `json:"workouts_this_week"`
}

// TypeMinutes is one row of GET /dashboard/time-by-type.
type TypeMinutes struct {
	Type    string `json:"type"`
	Minutes int    `json:"minutes"`
}

// User is the profile returned by GET /me.
type User struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	Gender   string  `json:"gender"`
}

// Registration is the body of POST /register.
type Registration struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	Gender   string  `json:"gender"`
}

// Token is the response of POST /login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}
