package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubetrainer/internal/smartcube"
)

var cubeScanTimeout time.Duration

var cubeCmd = &cobra.Command{
	Use:   "cube",
	Short: "GoCube smart cube commands",
}

var cubeScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List nearby GoCube devices",
	Long: `Scan for GoCube devices over Bluetooth.

If nothing is found:
  1. Rotate your cube to wake it up
  2. Make sure it's not connected to your phone
  3. Run this command again`,
	RunE: runCubeScan,
}

func init() {
	rootCmd.AddCommand(cubeCmd)
	cubeCmd.AddCommand(cubeScanCmd)
	cubeScanCmd.Flags().DurationVar(&cubeScanTimeout, "timeout", 0, "Scan duration (default: cube.scan_timeout from config)")
}

func runCubeScan(cmd *cobra.Command, args []string) error {
	a, err := openApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	timeout := cubeScanTimeout
	if timeout == 0 {
		timeout = a.cfg.Cube.ScanTimeout
	}

	client, err := smartcube.NewClient(a.log.Logger)
	if err != nil {
		return fmt.Errorf("BLE not available: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Scanning for GoCube devices...")

	results, err := client.Scan(context.Background(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No GoCube devices found.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(out, "%-20s %s  %s\n", r.Name, r.Address, labelStyle.Render(fmt.Sprintf("%d dBm", r.RSSI)))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use with: cubetrainer timer --cube")
	return nil
}

// connectCube connects to the configured cube, or the first one found.
func connectCube(ctx context.Context, a *app) (*smartcube.Client, error) {
	client, err := smartcube.NewClient(a.log.Logger)
	if err != nil {
		return nil, fmt.Errorf("BLE not available: %w", err)
	}
	if err := client.Connect(ctx, a.cfg.Cube.Name, a.cfg.Cube.ScanTimeout); err != nil {
		return nil, fmt.Errorf("failed to connect to cube: %w", err)
	}
	return client, nil
}
