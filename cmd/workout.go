package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/report"
	"github.com/fakeyudi/fitflex/internal/workout"
)

var (
	addName      string
	addDate      string
	addPreset    string
	addExercises []string

	listFormat string

	editName      string
	editDate      string
	editDurations []string

	deleteYes bool
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Create, list, edit and delete workouts",
}

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new workout",
	Long: `Log a new workout.

Start from a preset with --preset, then add or adjust exercises with
--exercise NAME=MINUTES (the exercise may also be given by id). An
--exercise without minutes uses the default duration.`,
	Example: `  fitflex workout add --preset "Leg Day"
  fitflex workout add --name "Morning" --exercise Plank=5 --exercise 7=20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		list, err := client.Exercises(cmd.Context())
		if err != nil {
			return apiFailure("loading exercises", err)
		}
		c := workout.NewComposer(workout.NewCatalog(list), client, sessions, board, cfg.DefaultDuration)

		if addPreset != "" {
			if err := c.SelectPreset(addPreset); err != nil {
				return fmt.Errorf("%w %q (see 'fitflex presets')", err, addPreset)
			}
		}
		for _, raw := range addExercises {
			ref, minutes := splitAssignment(raw)
			e, ok := c.Catalog().Find(ref)
			if !ok {
				return fmt.Errorf("unknown exercise %q (see 'fitflex exercises')", ref)
			}
			if !c.IsSelected(e.ID) {
				c.ToggleExercise(e.ID)
				if minutes == "" {
					minutes = strconv.Itoa(cfg.DefaultDuration)
				}
			}
			if minutes != "" {
				c.SetDuration(e.ID, minutes)
			}
		}
		if addName != "" {
			c.SetName(addName)
		}
		date := addDate
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		c.SetDate(date)

		if _, err := c.Submit(cmd.Context()); err != nil {
			return failure(err)
		}
		printNotice(cmd)
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show workout history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := report.NewRenderer(formatOr(listFormat))
		if err != nil {
			return err
		}
		if err := requireSession(); err != nil {
			return err
		}
		e := workout.NewEditor(client, sessions, board)
		if err := e.Load(cmd.Context()); err != nil {
			return failure(err)
		}
		out, err := r.RenderHistory(&report.History{
			Username:    sessions.Current().Username,
			GeneratedAt: time.Now(),
			Workouts:    e.Records(),
		})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var workoutEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a logged workout",
	Long: `Change the name, date or exercise durations of a logged workout.

--duration takes EXERCISE=MINUTES where EXERCISE is the exercise name,
its id, or its 1-based position in the workout.`,
	Example: `  fitflex workout edit 12 --name "Leg Day (heavy)" --duration Squats=25`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireSession(); err != nil {
			return err
		}
		e := workout.NewEditor(client, sessions, board)
		if err := e.Load(cmd.Context()); err != nil {
			return failure(err)
		}
		rec, ok := e.Record(id)
		if !ok {
			return fmt.Errorf("no workout with id %d", id)
		}
		e.BeginEdit(rec)

		if cmd.Flags().Changed("name") {
			_ = e.UpdateName(editName)
		}
		if cmd.Flags().Changed("date") {
			_ = e.UpdateDate(editDate)
		}
		for _, raw := range editDurations {
			ref, minutes := splitAssignment(raw)
			i, ok := draftIndex(e, ref)
			if !ok {
				return fmt.Errorf("workout %d has no exercise %q", id, ref)
			}
			if err := e.UpdateExerciseDuration(i, minutes); err != nil {
				return err
			}
		}

		if err := e.Save(cmd.Context(), id); err != nil {
			return failure(err)
		}
		printNotice(cmd)
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a logged workout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireSession(); err != nil {
			return err
		}
		e := workout.NewEditor(client, sessions, board)
		deleted, err := e.Delete(cmd.Context(), id, func(prompt string) bool {
			return deleteYes || confirm(cmd, prompt)
		})
		if err != nil {
			return failure(err)
		}
		if !deleted {
			cmd.Println("Nothing deleted.")
			return nil
		}
		printNotice(cmd)
		return nil
	},
}

// failure prefers the failure notice the workout package posted, which
// carries the server's detail, over the raw error.
func failure(err error) error {
	if n, ok := board.Current(); ok && n.Kind == notice.Failure {
		return errors.New(n.Text)
	}
	return err
}

// splitAssignment splits "ref=value" at the last '='. Without one the whole
// string is the ref.
func splitAssignment(raw string) (ref, value string) {
	i := strings.LastIndex(raw, "=")
	if i < 0 {
		return strings.TrimSpace(raw), ""
	}
	return strings.TrimSpace(raw[:i]), strings.TrimSpace(raw[i+1:])
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid workout id %q", raw)
	}
	return id, nil
}

// draftIndex resolves ref against the open draft by name, exercise id or
// 1-based position, in that order.
func draftIndex(e *workout.Editor, ref string) (int, bool) {
	cur, ok := e.State().(workout.Editing)
	if !ok {
		return 0, false
	}
	for i, ex := range cur.Draft.Exercises {
		if strings.EqualFold(ex.Name, ref) {
			return i, true
		}
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	for i, ex := range cur.Draft.Exercises {
		if ex.ExerciseID == n {
			return i, true
		}
	}
	if n >= 1 && n <= len(cur.Draft.Exercises) {
		return n - 1, true
	}
	return 0, false
}

func init() {
	add := workoutAddCmd.Flags()
	add.StringVarP(&addName, "name", "n", "", "workout name (defaults to the preset label)")
	add.StringVarP(&addDate, "date", "d", "", "workout date, YYYY-MM-DD (default today)")
	add.StringVarP(&addPreset, "preset", "p", "", "start from a built-in preset")
	add.StringArrayVarP(&addExercises, "exercise", "e", nil, "exercise to include as NAME=MINUTES or ID=MINUTES (repeatable)")

	workoutListCmd.Flags().StringVarP(&listFormat, "format", "f", "", "output format: markdown or json (default from config)")

	edit := workoutEditCmd.Flags()
	edit.StringVarP(&editName, "name", "n", "", "new workout name")
	edit.StringVarP(&editDate, "date", "d", "", "new workout date, YYYY-MM-DD")
	edit.StringArrayVar(&editDurations, "duration", nil, "new duration as EXERCISE=MINUTES (repeatable)")

	workoutDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "delete without asking")

	workoutCmd.AddCommand(workoutAddCmd, workoutListCmd, workoutEditCmd, workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
