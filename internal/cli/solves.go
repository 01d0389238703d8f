package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer/internal/analysis"
)

var solvesLimit int

var solvesCmd = &cobra.Command{
	Use:   "solves",
	Short: "Browse recorded solves",
}

var solvesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent solves",
	Long:  `Display the most recent solves, newest first. The best time is highlighted.`,
	RunE:  runSolvesList,
}

func init() {
	rootCmd.AddCommand(solvesCmd)

	solvesCmd.AddCommand(solvesListCmd)
	solvesListCmd.Flags().IntVar(&solvesLimit, "limit", 20, "Maximum number of solves to display")
}

func runSolvesList(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	out := cmd.OutOrStdout()
	recent := ctrl.Recent(solvesLimit)
	if len(recent) == 0 {
		fmt.Fprintln(out, "No solves yet. Start timing with: cubetrainer timer")
		return nil
	}

	best := analysis.BestOf(ctrl.Solves())
	now := time.Now()

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Recent solves (%d of %d)", len(recent), len(ctrl.Solves()))))
	fmt.Fprintln(out)
	for _, rec := range recent {
		fmt.Fprintln(out, solveLine(rec, best.Value, now))
	}
	return nil
}
