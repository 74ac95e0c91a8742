// Package data implements the data-access collaborator the service core
// hands out to app code. It loads the app's data source definitions from
// an easel.toml next to the script, overlays credentials from a sibling
// secrets.toml, and answers source lookups. Query execution against
// anything beyond local CSV files belongs to the bindings layer, not
// here.
package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"easel/internal/api"
	"easel/pkg/logging"
)

const (
	// ConfigFileName is the app data configuration file, resolved as a
	// sibling of the script path.
	ConfigFileName = "easel.toml"

	// SecretsFileName holds credentials and is overlaid onto the source
	// definitions. It is optional.
	SecretsFileName = "secrets.toml"
)

// Source describes one configured data source.
type Source struct {
	Type     string `toml:"type"`
	Path     string `toml:"path,omitempty"`
	DSN      string `toml:"dsn,omitempty"`
	User     string `toml:"user,omitempty"`
	Password string `toml:"password,omitempty"`
}

type fileConfig struct {
	Sources map[string]Source `toml:"sources"`
}

// Manager owns the loaded source definitions. A Manager always exists
// even when configuration loading failed: the degraded flag records that
// the fail-soft path was taken so callers and tests can assert on it
// instead of grepping logs.
type Manager struct {
	mu       sync.RWMutex
	sources  map[string]Source
	baseDir  string
	degraded bool
	reason   error
}

// NewEmpty creates a Manager with no sources. It is not degraded; it is
// the correct manager for a service that has no script path yet.
func NewEmpty() *Manager {
	return &Manager{sources: make(map[string]Source)}
}

// NewManager loads source definitions from configPath and overlays
// secretsPath. A missing secrets file is fine; a missing or malformed
// config file is an error.
func NewManager(configPath, secretsPath string) (*Manager, error) {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]Source)
	}

	if err := overlaySecrets(cfg.Sources, secretsPath); err != nil {
		return nil, err
	}

	return &Manager{
		sources: cfg.Sources,
		baseDir: filepath.Dir(configPath),
	}, nil
}

// FromScriptPath derives the sibling configuration and secrets paths
// from the script location and builds a Manager from them. Construction
// is fail-soft: on any error the returned Manager is empty and marked
// degraded, and the error is logged. This guarantees a headless run
// still produces console output even with broken configuration.
func FromScriptPath(scriptPath string) *Manager {
	scriptDir := filepath.Dir(scriptPath)
	configPath := filepath.Join(scriptDir, ConfigFileName)
	secretsPath := filepath.Join(scriptDir, SecretsFileName)

	m, err := NewManager(configPath, secretsPath)
	if err != nil {
		logging.Error("DataManager", err, "Failed to initialize data manager for %s, continuing without sources", scriptPath)
		m = NewEmpty()
		m.degraded = true
		m.reason = err
		return m
	}
	return m
}

// overlaySecrets merges secret fields into matching source definitions.
// Only non-empty secret fields override.
func overlaySecrets(sources map[string]Source, secretsPath string) error {
	raw, err := os.ReadFile(secretsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", secretsPath, err)
	}

	var secrets fileConfig
	if err := toml.Unmarshal(raw, &secrets); err != nil {
		return fmt.Errorf("parsing %s: %w", secretsPath, err)
	}

	for name, secret := range secrets.Sources {
		src, ok := sources[name]
		if !ok {
			continue
		}
		if secret.DSN != "" {
			src.DSN = secret.DSN
		}
		if secret.User != "" {
			src.User = secret.User
		}
		if secret.Password != "" {
			src.Password = secret.Password
		}
		sources[name] = src
	}
	return nil
}

// Degraded reports whether the fail-soft construction path was taken.
func (m *Manager) Degraded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.degraded
}

// DegradedReason returns the construction error behind a degraded
// Manager, or nil.
func (m *Manager) DegradedReason() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reason
}

// Connect returns the configured source names, sorted. It mirrors the
// connection handshake the bindings layer performs; an empty manager
// connects to nothing and returns an empty list.
func (m *Manager) Connect() ([]string, error) {
	names := m.SourceNames()
	logging.Info("DataManager", "Connected to %d data source(s)", len(names))
	return names, nil
}

// SourceNames returns the configured source names, sorted.
func (m *Manager) SourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source returns the definition for name.
func (m *Manager) Source(name string) (Source, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src, ok := m.sources[name]
	return src, ok
}

// Rows reads a CSV source and returns its records, header included.
// Non-CSV sources are the bindings layer's business and return an error
// here.
func (m *Manager) Rows(name string) ([][]string, error) {
	src, ok := m.Source(name)
	if !ok {
		return nil, api.NewSourceNotFoundError(name)
	}
	if src.Type != "csv" {
		return nil, fmt.Errorf("source %s has type %q, only csv is readable in-core", name, src.Type)
	}

	path := src.Path
	if !filepath.IsAbs(path) {
		m.mu.RLock()
		path = filepath.Join(m.baseDir, path)
		m.mu.RUnlock()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv source %s: %w", name, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv source %s: %w", name, err)
	}
	return records, nil
}
