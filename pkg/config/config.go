// Package config loads the assistant configuration from an optional YAML file
// with environment-variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full assistant configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`

	OpenAI struct {
		APIKey          string   `yaml:"api_key"`
		BaseURL         string   `yaml:"base_url"`
		ChatModel       string   `yaml:"chat_model"`
		TranscribeModel string   `yaml:"transcribe_model"`
		Language        string   `yaml:"language"`
		Timeout         Duration `yaml:"timeout"`
	} `yaml:"openai"`

	Reminder struct {
		PollInterval  Duration `yaml:"poll_interval"`
		NotifyCommand string   `yaml:"notify_command"`
	} `yaml:"reminder"`
}

// Load reads the YAML file at path (skipped when path is empty or missing),
// applies defaults and then environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.DBPath == "" {
		c.DBPath = "memoria.db"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o"
	}
	if c.OpenAI.TranscribeModel == "" {
		c.OpenAI.TranscribeModel = "whisper-1"
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "pt"
	}
	if c.OpenAI.Timeout <= 0 {
		c.OpenAI.Timeout = Duration(60 * time.Second)
	}
	if c.Reminder.PollInterval <= 0 {
		c.Reminder.PollInterval = Duration(time.Minute)
	}
}

func (c *Config) applyEnv() {
	c.ListenAddr = getenv("MEMORIA_LISTEN_ADDR", c.ListenAddr)
	c.DBPath = getenv("MEMORIA_DB_PATH", c.DBPath)
	c.OpenAI.APIKey = getenv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getenv("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.OpenAI.ChatModel = getenv("MEMORIA_CHAT_MODEL", c.OpenAI.ChatModel)
	c.OpenAI.TranscribeModel = getenv("MEMORIA_TRANSCRIBE_MODEL", c.OpenAI.TranscribeModel)
	c.OpenAI.Language = getenv("MEMORIA_LANGUAGE", c.OpenAI.Language)
	c.Reminder.PollInterval = Duration(getenvDuration("MEMORIA_POLL_INTERVAL", c.Reminder.PollInterval.Std()))
	c.Reminder.NotifyCommand = getenv("MEMORIA_NOTIFY_COMMAND", c.Reminder.NotifyCommand)

	if v := os.Getenv("MEMORIA_OPENAI_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.OpenAI.Timeout = Duration(time.Duration(n) * time.Second)
		}
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
