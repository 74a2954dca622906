package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is the root configuration for tts, stored in <home>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage  StorageConfig  `json:"storage"`
	Log      LogConfig      `json:"log"`
	Defaults DefaultsConfig `json:"defaults"`
	Outlook  OutlookConfig  `json:"outlook"`
}

// StorageConfig controls where day files are written.
type StorageConfig struct {
	// Dir holds the YYYY/MM/DD.json day files. Empty = the tts home directory.
	Dir string `json:"dir"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level string `json:"level"`
}

// DefaultsConfig holds values applied when a command omits them.
type DefaultsConfig struct {
	// Project is used by "tts add" when --project is not given. Empty = none.
	Project string `json:"project"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar sync settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultProject is the project name assigned to imported Outlook events.
	DefaultProject string `json:"default_project"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID, which supports
	// the device code flow without a client secret.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultOutlookProject is the project assigned to imported calendar events.
	DefaultOutlookProject = "Meetings"
	// DefaultLogLevel keeps normal runs quiet.
	DefaultLogLevel = "warn"

	// EnvHome overrides the tts home directory.
	EnvHome = "TTS_HOME"
	// EnvLogLevel overrides log.level.
	EnvLogLevel = "TTS_LOG_LEVEL"
	// EnvDefaultProject overrides defaults.project.
	EnvDefaultProject = "TTS_DEFAULT_PROJECT"
)

func defaultConfig(home string) Config {
	return Config{
		Storage: StorageConfig{Dir: home},
		Log:     LogConfig{Level: DefaultLogLevel},
		Outlook: OutlookConfig{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			DefaultProject: DefaultOutlookProject,
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `// tts configuration
//
// All settings are optional. Environment variables TTS_LOG_LEVEL and
// TTS_DEFAULT_PROJECT (or the same keys in .env next to this file) win
// over the values below.
{
  "storage": {
    // Directory for the YYYY/MM/DD.json day files. Empty = this directory.
    "dir": ""
  },

  "log": {
    // One of debug, info, warn, error.
    "level": "warn"
  },

  "defaults": {
    // Project used by "tts add" when --project is omitted.
    "project": ""
  },

  "outlook": {
    // Azure AD tenant ID; "common" works for personal accounts and most organisations.
    "tenant_id": "common",

    // Azure application (client) ID for the OAuth2 device code flow.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Project assigned to imported calendar events (override with --project).
    "default_project": "Meetings",

    // IANA timezone for calendar event times, e.g. "Europe/Berlin". Empty = UTC.
    "timezone": ""
  }
}
`

// Home returns the tts home directory: $TTS_HOME, or ~/.tts.
func Home() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "cannot determine home directory")
	}
	return filepath.Join(home, ".tts"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <home>/config.json, creating it with annotated defaults on first
// run, then applies overrides from <home>/.env and the process environment.
// The returned Config is usable even when an error is returned.
func Load(home string) (Config, error) {
	cfg := defaultConfig(home)
	path := filepath.Join(home, "config.json")

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if writeErr := writeDefault(path); writeErr != nil {
			return applyEnv(home, cfg), writeErr
		}
	case err != nil:
		return applyEnv(home, cfg), errors.Wrapf(err, "reading config file %s", path)
	default:
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			return applyEnv(home, defaultConfig(home)), errors.Wrapf(err, "parsing config file %s (delete it to regenerate defaults)", path)
		}
	}

	// Fill zero-value fields so a partially edited file still works.
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = home
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	if cfg.Outlook.DefaultProject == "" {
		cfg.Outlook.DefaultProject = DefaultOutlookProject
	}

	return applyEnv(home, cfg), nil
}

// applyEnv layers <home>/.env and then the process environment over cfg.
func applyEnv(home string, cfg Config) Config {
	env, err := godotenv.Read(filepath.Join(home, ".env"))
	if err != nil {
		env = map[string]string{}
	}
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return env[key]
	}

	if v := lookup(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := lookup(EnvDefaultProject); v != "" {
		cfg.Defaults.Project = v
	}
	return cfg
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return errors.Wrap(err, "writing default config")
	}
	return nil
}
