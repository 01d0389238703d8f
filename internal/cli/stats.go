package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/analysis"
)

var (
	statsLastSession bool
	statsWidth       int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show averages and trends",
	Long: `Show the dashboard (Ao5, Ao12, Ao50, Ao100, best) followed by trend
charts for solve times, the rolling Ao5, and solve-to-solve consistency.

Use --last-session to restrict the trends to the most recent session.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsLastSession, "last-session", false, "Only chart the most recent session")
	statsCmd.Flags().IntVar(&statsWidth, "width", 50, "Chart width in characters")
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	out := cmd.OutOrStdout()
	solves := ctrl.Solves()

	fmt.Fprintln(out, titleStyle.Render("Statistics"))
	fmt.Fprintln(out)
	for _, line := range dashboardLines(ctrl.Dashboard()) {
		fmt.Fprintln(out, line)
	}

	if statsLastSession && len(solves) > 0 {
		solves = lastSession(solves)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Session"), solves[0].Session)
	}

	if len(solves) == 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "No solves yet. Start timing with: cubetrainer timer")
		return nil
	}

	report := analysis.AnalyzeTrends(solves)

	fmt.Fprintln(out)
	fmt.Fprintln(out, titleStyle.Render("Trends"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s - %s\n", labelStyle.Render(fmt.Sprintf("%-13s", "Range")), report.DateRange.Start, report.DateRange.End)
	fmt.Fprintln(out, statLine("Mean", report.Mean, 13))
	fmt.Fprintln(out, statLine("Worst", report.Worst, 13))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", "Improvement")), valueStyle.Render(fmt.Sprintf("%+.1f%%", report.ImprovementPct)))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", "Consistency")), valueStyle.Render(fmt.Sprintf("%.0f/100", report.ConsistencyScore)))

	fmt.Fprintln(out)
	chart(out, "Times", analysis.Times(solves))
	chart(out, "Rolling Ao5", analysis.RollingAverage(5, solves))
	chart(out, "Consistency", analysis.Consistency(solves))
	return nil
}

func chart(out io.Writer, label string, values []float64) {
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-13s", label)), analysis.Sparkline(values, statsWidth))
}

// lastSession returns the solves sharing the session of the newest solve.
func lastSession(solves []cubetrainer.SolveRecord) []cubetrainer.SolveRecord {
	id := solves[len(solves)-1].Session
	var out []cubetrainer.SolveRecord
	for _, s := range solves {
		if s.Session == id {
			out = append(out, s)
		}
	}
	return out
}
