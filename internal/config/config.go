// internal/config/config.go
//
// This package handles configuration and the .mediflow directory structure.
// Every ward that runs the dashboard gets a .mediflow/ folder created in the
// directory it was launched from.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/SaiSmaran29/MediFlow/internal/clinical"
)

const (
	// MediflowDir is the name of the directory we create per ward
	MediflowDir = ".mediflow"

	defaultRole              = clinical.RoleDoctor
	defaultSummarizer        = "static"
	defaultSummarizerTimeout = 20
)

const defaultProjectConfigYAML = `# mediflow ward configuration
version: 1

ward:
  # Role selected when the dashboard starts: doctor, nurse, pharmacist
  # or diagnostic. Keys 1-4 switch roles at runtime.
  default_role: doctor
  # Optional YAML census loaded instead of the built-in demo patients.
  # seed_file: census.yaml

summarizer:
  # "static" renders handover summaries locally; "gemini" calls the
  # Gemini API using the key found in the environment variable below.
  provider: static
  model: gemini-2.0-flash
  api_key_env: GEMINI_API_KEY
  timeout_seconds: 20
`

// WardConfig captures dashboard preferences.
type WardConfig struct {
	DefaultRole string `yaml:"default_role"`
	SeedFile    string `yaml:"seed_file,omitempty"`
}

// SummarizerConfig selects and tunes the handover collaborator.
type SummarizerConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model,omitempty"`
	APIKeyEnv      string `yaml:"api_key_env,omitempty"`
	Endpoint       string `yaml:"endpoint,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// ProjectConfig models .mediflow/config.yaml.
type ProjectConfig struct {
	Version    int              `yaml:"version"`
	Ward       WardConfig       `yaml:"ward"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Config holds the runtime configuration for one dashboard session.
type Config struct {
	// ProjectDir is the directory the dashboard was launched from.
	ProjectDir string

	// MediflowProjectDir is ProjectDir/.mediflow.
	MediflowProjectDir string

	Project ProjectConfig
}

// InitMediflowDir creates the .mediflow directory structure:
//
// .mediflow/
// ├── logs/         <- process log and care activity feed
// └── config.yaml   <- ward configuration (written on first run)
func InitMediflowDir(projectDir string) error {
	mediflowDir := filepath.Join(projectDir, MediflowDir)
	if err := os.MkdirAll(filepath.Join(mediflowDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(mediflowDir, "config.yaml"))
}

// NewConfig creates a Config populated from .mediflow/config.yaml,
// falling back to defaults when the file is absent.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		MediflowProjectDir: filepath.Join(projectDir, MediflowDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.MediflowProjectDir, "logs")
}

// ActivityLogPath returns the care activity feed location.
func (c *Config) ActivityLogPath() string {
	return filepath.Join(c.LogsDir(), "activity.log")
}

// ProcessLogPath returns the structured process log location.
func (c *Config) ProcessLogPath() string {
	return filepath.Join(c.LogsDir(), "mediflow.log")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.MediflowProjectDir, "config.yaml")
}

// DefaultRole returns the role selected at startup.
func (c *Config) DefaultRole() clinical.Role {
	role, err := clinical.ParseRole(c.Project.Ward.DefaultRole)
	if err != nil {
		return defaultRole
	}
	return role
}

// SeedFile returns the configured census path, empty when the built-in
// demo patients should be used. Relative paths resolve against the
// .mediflow directory.
func (c *Config) SeedFile() string {
	return c.Project.Ward.SeedFile
}

// Summarizer returns the collaborator settings.
func (c *Config) Summarizer() SummarizerConfig {
	return c.Project.Summarizer
}

// APIKey resolves the collaborator key from the configured environment
// variable. Empty when unset, which downgrades gemini to static.
func (c *Config) APIKey() string {
	env := strings.TrimSpace(c.Project.Summarizer.APIKeyEnv)
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize(c.MediflowProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Ward:    WardConfig{DefaultRole: string(defaultRole)},
		Summarizer: SummarizerConfig{
			Provider:       defaultSummarizer,
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: defaultSummarizerTimeout,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Ward.DefaultRole) == "" {
		pc.Ward.DefaultRole = string(defaultRole)
	}
	if strings.TrimSpace(pc.Summarizer.Provider) == "" {
		pc.Summarizer.Provider = defaultSummarizer
	}
	if pc.Summarizer.APIKeyEnv == "" {
		pc.Summarizer.APIKeyEnv = "GEMINI_API_KEY"
	}
	if pc.Summarizer.TimeoutSeconds <= 0 {
		pc.Summarizer.TimeoutSeconds = defaultSummarizerTimeout
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Ward.DefaultRole = strings.ToLower(strings.TrimSpace(pc.Ward.DefaultRole))
	pc.Ward.SeedFile = resolvePath(base, pc.Ward.SeedFile)
	pc.Summarizer.Provider = strings.ToLower(strings.TrimSpace(pc.Summarizer.Provider))
	pc.Summarizer.Model = strings.TrimSpace(pc.Summarizer.Model)
	pc.Summarizer.APIKeyEnv = strings.TrimSpace(pc.Summarizer.APIKeyEnv)
	pc.Summarizer.Endpoint = strings.TrimSpace(pc.Summarizer.Endpoint)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if _, err := clinical.ParseRole(pc.Ward.DefaultRole); err != nil {
		return fmt.Errorf("ward.default_role: %w", err)
	}
	switch pc.Summarizer.Provider {
	case "static", "gemini":
	default:
		return fmt.Errorf("summarizer.provider must be 'static' or 'gemini'")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
