// Package config loads runtime configuration for the EduLibrary client.
//
// Sources & precedence
//
//  1. Built-in defaults (env-default tags, see (*Config).LoadDefaults).
//  2. Optional YAML or JSON file selected via -c or -config, read by cleanenv.
//  3. EDULIB_* environment variables (cleanenv overlays them on the file).
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a string   base URL of the EduLibrary API
//	-d string   path of the local settings database
//	-o string   directory downloads and exports are written to
//	-s int      lifetime of status messages (seconds)
//	-l string   log level: debug, info, warn, error
//
// # File schema (YAML)
//
//	server_url: http://127.0.0.1:5000
//	settings_db: settings.db
//	download_dir: download
//	status_ttl: 5s
//	log_level: info
package config
