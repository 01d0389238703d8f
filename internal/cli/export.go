package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer"
	"github.com/SeamusWaldron/cubetrainer/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export solve history",
	Long: `Export every recorded solve as JSON or CSV.

Examples:
  cubetrainer export
  cubetrainer export --format csv -o solves.csv`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format (json, csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ctrl := a.newController()
	defer ctrl.Close()

	solves := ctrl.Solves()

	if exportOutput == "" {
		return export.Write(cmd.OutOrStdout(), format, solves)
	}

	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(exportOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeAndClose(f, format, solves); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d solves to %s\n", len(solves), exportOutput)
	return nil
}

func writeAndClose(f io.WriteCloser, format export.Format, solves []cubetrainer.SolveRecord) error {
	if err := export.Write(f, format, solves); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	return f.Close()
}
