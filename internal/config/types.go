// Package config loads easel's own runtime configuration. This is the
// framework's config.yaml (log level, server port, theme), not the app's
// data source definitions, which live in easel.toml next to the script
// and belong to the data package.
package config

// EaselConfig is the runtime configuration of the framework itself.
type EaselConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`

	// Port is the port the server context's transport layer binds.
	Port int `yaml:"port"`

	// Theme names the branding theme applied by the rendering layer.
	Theme string `yaml:"theme"`
}
