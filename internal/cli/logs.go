package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer/internal/logging"
)

var logsSolvesOnly bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List timer session logs",
	Long: `List the session logs written by 'cubetrainer timer', newest first.

Usage:
  cubetrainer logs                     # List available logs
  cubetrainer logs show <log-file>     # Print one log`,
	RunE: runLogsList,
}

var logsShowCmd = &cobra.Command{
	Use:   "show <log-file>",
	Short: "Print a session log",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogsShow,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsShowCmd)
	logsShowCmd.Flags().BoolVar(&logsSolvesOnly, "solves", false, "Only show recorded solves")
}

func runLogsList(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	logs, err := logging.ListSessionLogs(a.cfg.LogDir())
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		fmt.Fprintln(out, "No log files found. Start a session with: cubetrainer timer")
		return nil
	}

	fmt.Fprintln(out, "Available log files:")
	fmt.Fprintln(out)
	for _, l := range logs {
		fmt.Fprintf(out, "  %s\n", filepath.Base(l))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: cubetrainer logs show <filename>")
	return nil
}

func runLogsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	path := args[0]
	if !filepath.IsAbs(path) {
		path = filepath.Join(a.cfg.LogDir(), path)
	}

	entries, err := logging.LoadSessionLog(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		if logsSolvesOnly && e.Field("seconds") == "" {
			continue
		}
		fmt.Fprintf(out, "%s %-5s %s %s\n",
			e.Time.Format("15:04:05"),
			strings.ToUpper(e.Level),
			e.Message,
			labelStyle.Render(formatFields(e.Fields)))
	}
	return nil
}

func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}
