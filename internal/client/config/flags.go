package config

import (
	"flag"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/edulibrary/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-o", "-s", "-l", "-i"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the EduLibrary API")
	fs.StringVar(&cfg.SettingsDB, "d", cfg.SettingsDB, "path of the local settings database")
	fs.StringVar(&cfg.DownloadDir, "o", cfg.DownloadDir, "directory for downloads and exports")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.InviteURL, "i", cfg.InviteURL, "invitation link to register with")
	statusTTL := fs.Int("s", int(cfg.StatusTTL.Seconds()), "status message lifetime (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "s" {
			cfg.StatusTTL = time.Duration(*statusTTL) * time.Second
		}
	})
	return nil
}
