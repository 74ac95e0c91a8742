package app

import (
	"fmt"
	"os"
	"runtime"

	"easel/internal/data"
	"easel/internal/env"
	"easel/internal/service"
	"easel/pkg/logging"
)

// Connect initializes the service layer for a script-style app and
// returns the data-access collaborator. When headless is true the
// headless execution context is requested before detection runs.
//
// The script path is taken from EASEL_SCRIPT_PATH when set; otherwise
// the caller's own source file stands in, mirroring how the app's data
// configuration is resolved as a sibling of the script.
func Connect(headless bool) (*data.Manager, error) {
	if headless {
		os.Setenv(env.HeadlessEnv, "1")
		fmt.Println("[easel] Running in headless mode (console output)")
	}

	scriptPath := env.ScriptPath()
	if scriptPath == "" {
		if _, file, _, ok := runtime.Caller(1); ok {
			scriptPath = file
		}
	}

	svc, err := service.Initialize(scriptPath)
	if err != nil {
		logging.Error("Connect", err, "Error connecting to the service layer")
		return nil, err
	}

	names, err := svc.DataManager().Connect()
	if err != nil {
		logging.Error("Connect", err, "Error connecting to data sources")
		return nil, err
	}
	logging.Info("Connect", "Successfully connected to data sources: %v", names)
	return svc.DataManager(), nil
}

// Append renders a component through the service singleton.
func Append(component any) error {
	svc, err := service.Instance()
	if err != nil {
		return err
	}
	svc.AppendComponent(component)
	return nil
}

// ComponentState reads a component's current state through the service
// singleton.
func ComponentState(id string, def any) (any, error) {
	svc, err := service.Instance()
	if err != nil {
		return nil, err
	}
	return svc.GetComponentState(id, def), nil
}

// Rows reads a CSV source by name through the service singleton's data
// manager.
func Rows(source string) ([][]string, error) {
	svc, err := service.Instance()
	if err != nil {
		logging.Error("Connect", err, "Error reading source %s", source)
		return nil, err
	}
	return svc.DataManager().Rows(source)
}

// SourceNames lists the configured data sources through the service
// singleton's data manager.
func SourceNames() ([]string, error) {
	svc, err := service.Instance()
	if err != nil {
		return nil, err
	}
	return svc.DataManager().SourceNames(), nil
}
