package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"easel/internal/api"
	"easel/internal/env"
	"easel/pkg/app"
)

// serveScriptPath pins the script path watched for hot reload.
var serveScriptPath string

// serveConfigDir passes a custom easel config directory to the app.
var serveConfigDir string

// serveDebug enables verbose logging inside the app.
var serveDebug bool

// serveCmd launches an app binary in the server execution context. The
// explicit EASEL_CONTEXT signal is the preferred classification path;
// the app never has to rely on call-stack inspection when launched this
// way.
var serveCmd = &cobra.Command{
	Use:   "serve <app-binary> [args...]",
	Short: "Run an easel app as an interactive server",
	Long: `Runs the given app binary with the server execution context
requested. The app's service layer accepts client registrations, keeps
component state synchronized across clients and watches the script path
for changes.

The transport serving clients is provided by the app's integration; this
command only sets the ambient signals and supervises the process.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	child := exec.CommandContext(cmd.Context(), args[0], args[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	childEnv := append(os.Environ(), env.ContextEnv+"="+api.ContextServer.String())
	if serveScriptPath != "" {
		if _, err := os.Stat(serveScriptPath); err != nil {
			return fmt.Errorf("script %s not found", serveScriptPath)
		}
		childEnv = append(childEnv, env.ScriptPathEnv+"="+serveScriptPath)
	}
	if serveConfigDir != "" {
		childEnv = append(childEnv, app.ConfigDirEnv+"="+serveConfigDir)
	}
	if serveDebug {
		childEnv = append(childEnv, app.DebugEnv+"=1")
	}
	child.Env = childEnv

	return child.Run()
}

func init() {
	serveCmd.Flags().StringVar(&serveScriptPath, "script", "", "script path watched for hot reload")
	serveCmd.Flags().StringVar(&serveConfigDir, "config-path", "", "directory holding easel's config.yaml")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging in the app")
}
