package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"easel/internal/data"
	"easel/pkg/logging"
)

// checkCmd validates an app's data configuration without running the
// app: it loads easel.toml and secrets.toml the same way the service
// layer would and reports the configured sources.
var checkCmd = &cobra.Command{
	Use:   "check <script-or-app-dir>",
	Short: "Validate an app's data configuration",
	Long: `Loads the easel.toml and secrets.toml that the service layer would
resolve for the given script path (or app directory) and reports the
configured data sources. Fails when the configuration cannot be loaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	logging.InitForCLI(logging.LevelWarn, os.Stderr)

	scriptPath := args[0]
	if info, err := os.Stat(scriptPath); err == nil && info.IsDir() {
		// Accept an app directory: pretend the script lives inside it.
		scriptPath = filepath.Join(scriptPath, "app")
	}

	m := data.FromScriptPath(scriptPath)
	if m.Degraded() {
		return fmt.Errorf("data configuration is broken: %v", m.DegradedReason())
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"Source", "Type", "Path / DSN"})
	for _, name := range m.SourceNames() {
		src, _ := m.Source(name)
		location := src.Path
		if location == "" {
			location = src.DSN
		}
		tw.AppendRow(table.Row{name, src.Type, location})
	}
	tw.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "%d source(s) configured\n", len(m.SourceNames()))
	return nil
}
