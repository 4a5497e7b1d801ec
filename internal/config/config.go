package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config is the client configuration, persisted as JSON. A default file
// is written on first load. The UI block records the last-viewed state
// so the dashboard reopens where the user left off; it is convenience
// state, not authoritative data.
type Config struct {
	RuntimeURL string `json:"runtime_url"`
	DataDir    string `json:"data_dir"`
	LogLevel   string `json:"log_level"`

	Health struct {
		IntervalSeconds int `json:"interval_seconds"`
	} `json:"health"`

	Notify struct {
		TelegramToken  string `json:"telegram_token"`
		TelegramChatID int64  `json:"telegram_chat_id"`
	} `json:"notify"`

	UI struct {
		LastSection string `json:"last_section"`
		LastThread  string `json:"last_thread"`
		LastPane    string `json:"last_pane"`
	} `json:"ui"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".lookout", "config.json")
}

// Load reads the config file at path, writing defaults first if it does
// not exist. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	cfg := &Config{
		RuntimeURL: "http://127.0.0.1:7878",
		DataDir:    filepath.Join(os.Getenv("HOME"), ".lookout"),
		LogLevel:   "info",
	}
	cfg.Health.IntervalSeconds = 10
	cfg.UI.LastSection = "threads"

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := writeDefaults(path, cfg); err != nil {
			return nil, err
		}
	}

	// Override from env (highest precedence)
	if url := os.Getenv("LOOKOUT_RUNTIME_URL"); url != "" {
		cfg.RuntimeURL = url
	}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Notify.TelegramToken = token
	}
	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		if id, err := strconv.ParseInt(chat, 10, 64); err == nil {
			cfg.Notify.TelegramChatID = id
		}
	}

	return cfg, nil
}

// Save writes the config to path atomically.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func writeDefaults(path string, cfg *Config) error {
	return Save(path, cfg)
}

// ListValues returns the config as a flat dot-keyed map, with secrets
// masked when mask is true.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	flat := Flatten(nested)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue loads the config at path and returns the value for the given
// dot-separated key. Secrets are masked.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	values, err := ListValues(cfg, true)
	if err != nil {
		return nil, err
	}
	val, ok := values[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue loads the config at path, sets the dot-separated key to the
// given value, and saves the result. The key must already exist; values
// are coerced to the key's current JSON type.
func SetValue(path, key, value string) error {
	cfg, err := Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	values, err := ListValues(cfg, false)
	if err != nil {
		return err
	}
	current, ok := values[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	values[key] = coerce(value, current)

	nested := Unflatten(values)
	data, err := json.Marshal(nested)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	updated := &Config{}
	if err := json.Unmarshal(data, updated); err != nil {
		return fmt.Errorf("apply config value: %w", err)
	}
	return Save(path, updated)
}

// coerce converts the string value to the JSON type of the current
// value, falling back to the raw string.
func coerce(value string, current any) any {
	switch current.(type) {
	case bool:
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	case float64:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return value
}
