package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"easel/internal/env"
	"easel/pkg/app"
)

// runScriptPath optionally pins the script path the app's data
// configuration is resolved against. When empty the app resolves it from
// its own caller file.
var runScriptPath string

// runConfigDir passes a custom easel config directory to the app.
var runConfigDir string

// runCmd launches an app binary in the headless execution context: the
// app's service layer sees EASEL_HEADLESS=1, prints components to the
// console and never opens client connections.
var runCmd = &cobra.Command{
	Use:   "run <app-binary> [args...]",
	Short: "Run an easel app headless with console output",
	Long: `Runs the given app binary with the headless execution context
requested. The app's service layer prints each rendered component as a
single console line instead of rendering it in a client.

The script path (used to resolve the app's easel.toml and secrets.toml)
can be pinned with --script; otherwise the app derives it itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	childEnv := append(os.Environ(), env.HeadlessEnv+"=1")
	if runScriptPath != "" {
		if _, err := os.Stat(runScriptPath); err != nil {
			return fmt.Errorf("script %s not found", runScriptPath)
		}
		childEnv = append(childEnv, env.ScriptPathEnv+"="+runScriptPath)
	}
	if runConfigDir != "" {
		childEnv = append(childEnv, app.ConfigDirEnv+"="+runConfigDir)
	}
	child.Env = childEnv

	return child.Run()
}

func init() {
	runCmd.Flags().StringVar(&runScriptPath, "script", "", "script path the app's data configuration is resolved against")
	runCmd.Flags().StringVar(&runConfigDir, "config-path", "", "directory holding easel's config.yaml")
}
