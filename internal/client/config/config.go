package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dmitrijs2005/edulibrary/internal/flagx"
)

// Config holds runtime settings for the EduLibrary CLI.
type Config struct {
	ServerURL   string        `yaml:"server_url" json:"server_url" env:"EDULIB_SERVER_URL" env-default:"http://127.0.0.1:5000"`
	SettingsDB  string        `yaml:"settings_db" json:"settings_db" env:"EDULIB_SETTINGS_DB" env-default:"settings.db"`
	DownloadDir string        `yaml:"download_dir" json:"download_dir" env:"EDULIB_DOWNLOAD_DIR" env-default:"download"`
	StatusTTL   time.Duration `yaml:"status_ttl" json:"status_ttl" env:"EDULIB_STATUS_TTL" env-default:"5s"`
	LogLevel    string        `yaml:"log_level" json:"log_level" env:"EDULIB_LOG_LEVEL" env-default:"info"`
	// InviteURL is the invitation link the client was opened with, if any.
	InviteURL string `yaml:"-" json:"-" env:"EDULIB_INVITE_URL"`
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.SettingsDB = "settings.db"
	c.DownloadDir = "download"
	c.StatusTTL = 5 * time.Second
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, an optional config file, the
// environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	if c.StatusTTL <= 0 {
		return fmt.Errorf("status ttl must be positive, got %s", c.StatusTTL)
	}
	return nil
}
