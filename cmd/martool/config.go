package main

import (
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Default values from environment variables
var (
	defaultAgentURL  = getEnvOrDefault("MARTOOL_AGENT_URL", "http://localhost:8001")
	defaultWorkspace = getEnvOrDefault("MARTOOL_WORKSPACE", "")
	defaultLanguage  = getEnvOrDefault("MARTOOL_LANG", "English")
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Config holds the resolved CLI configuration for one invocation.
type Config struct {
	AgentURL  string   `yaml:"agentUrl"`
	Workspace string   `yaml:"workspace"`
	Language  string   `yaml:"language"`
	Platforms []string `yaml:"platforms"`
	RunsDir   string   `yaml:"runsDir"`

	Quiet  bool `yaml:"-"`
	Debug  bool `yaml:"-"`
	NoSave bool `yaml:"-"`
}

// parseConfig extracts configuration from command-line flags, then
// fills remaining zero values from the config file.
func parseConfig(cmd *cli.Command) *Config {
	cfg := &Config{
		AgentURL:  cmd.String("agent"),
		Workspace: cmd.String("workspace"),
		Language:  cmd.String("lang"),
		Quiet:     cmd.Bool("quiet"),
		Debug:     cmd.Bool("debug"),
		NoSave:    cmd.Bool("no-save"),
	}

	if fileCfg := loadFileConfig(); fileCfg != nil {
		// Flags left at their defaults pick up file values; explicit
		// flags win because mergo only fills zero values.
		overlay := *cfg
		if overlay.AgentURL == defaultAgentURL {
			overlay.AgentURL = ""
		}
		if overlay.Language == defaultLanguage {
			overlay.Language = ""
		}
		if err := mergo.Merge(&overlay, fileCfg); err == nil {
			cfg = &overlay
		}
	}

	if cfg.AgentURL == "" {
		cfg.AgentURL = defaultAgentURL
	}
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	return cfg
}

// loadFileConfig reads ~/.martool/config.yaml if present.
func loadFileConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(homeDir, ".martool", "config.yaml"))
	if err != nil {
		return nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	return &cfg
}
