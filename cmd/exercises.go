package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/workout"
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List the exercise catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := client.Exercises(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading exercises: %s", api.DetailOf(err))
		}
		catalog := workout.NewCatalog(list)
		if catalog.Len() == 0 {
			cmd.Println("The catalog is empty.")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
		for _, e := range catalog.All() {
			fmt.Fprintf(w, "%d\t%s\t%s\n", e.ID, e.Name, e.Category)
		}
		return w.Flush()
	},
}

var presetsCheck bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in workout presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var catalog *workout.Catalog
		if presetsCheck {
			list, err := client.Exercises(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading exercises: %s", api.DetailOf(err))
			}
			catalog = workout.NewCatalog(list)
		}
		for _, p := range workout.Presets {
			cmd.Printf("%s: %s\n", p.Label, strings.Join(p.Exercises, ", "))
			if catalog == nil {
				continue
			}
			if missing := catalog.Missing(p.Exercises); len(missing) > 0 {
				cmd.Printf("  not in catalog: %s\n", strings.Join(missing, ", "))
			}
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsCheck, "check", false, "report preset exercises the catalog does not have")
	rootCmd.AddCommand(exercisesCmd, presetsCmd)
}
