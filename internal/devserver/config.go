package devserver

import (
	"flag"
	"fmt"
	"io"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dmitrijs2005/edulibrary/internal/flagx"
)

// Config holds runtime settings for the devserver.
type Config struct {
	Addr          string `yaml:"addr" json:"addr" env:"EDULIB_DEV_ADDR"`
	AdminUser     string `yaml:"admin_user" json:"admin_user" env:"EDULIB_DEV_ADMIN"`
	AdminEmail    string `yaml:"admin_email" json:"admin_email" env:"EDULIB_DEV_ADMIN_EMAIL"`
	AdminPassword string `yaml:"admin_password" json:"admin_password" env:"EDULIB_DEV_ADMIN_PASSWORD"`
	LogLevel      string `yaml:"log_level" json:"log_level" env:"EDULIB_DEV_LOG_LEVEL"`
}

func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.AdminUser = "admin"
	c.AdminEmail = "admin@edulibrary.local"
	c.AdminPassword = "admin123"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then an optional config file (-c/-config) or
// the environment, then the flags -a, -admin, -admin-password and -l.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	fs := flag.NewFlagSet("devserver", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AdminUser, "admin", cfg.AdminUser, "seeded admin username")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "seeded admin password")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-admin", "-admin-password", "-l"})); err != nil {
		return nil, err
	}

	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin user and password are required")
	}
	return cfg, nil
}
