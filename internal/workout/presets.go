package workout

// Preset is a named workout template. Exercise names are matched against
// the catalog exactly, case included.
type Preset struct {
	Label     string
	Exercises []string
}

// Presets are the built-in templates in display order.
var Presets = []Preset{
	{Label: "Full Body Blast", Exercises: []string{"Squats", "Push Ups", "Jumping Jacks", "Plank", "Dumbbell Rows"}},
	{Label: "Leg Day", Exercises: []string{"Lunges", "Leg Press", "Deadlifts", "Calf Raises"}},
	{Label: "Upper Body Strength", Exercises: []string{"Bench Press", "Shoulder Press", "Pull-ups", "Bicep Curls", "Tricep Dips"}},
	{Label: "Core Crusher", Exercises: []string{"Sit-ups", "Russian Twists", "Leg Raises", "Bicycle Crunches"}},
	{Label: "HIIT Burn", Exercises: []string{"Burpees", "Mountain Climbers", "Jump Squats", "High Knees", "Jump Rope"}},
	{Label: "Cardio Endurance", Exercises: []string{"Running (Treadmill)", "Rowing Machine", "Cycling"}},
}

// FindPreset looks a preset up by its label.
func FindPreset(label string) (Preset, bool) {
	for _, p := range Presets {
		if p.Label == label {
			return p, true
		}
	}
	return Preset{}, false
}
