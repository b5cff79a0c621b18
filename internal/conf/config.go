// config.go: settings struct for the timesheet service and functions to
// load the settings from file, environment and defaults.
package conf

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// LogConfig contains settings for a service log file
type LogConfig struct {
	Enabled bool   // true to enable this log
	Path    string // path to log file
}

// MainSettings contains main application settings
type MainSettings struct {
	Name string    // name of the running node
	Log  LogConfig // main log settings
}

// SQLiteSettings contains settings for the SQLite database output
type SQLiteSettings struct {
	Enabled bool   // true to enable SQLite output
	Path    string // path to the database file, or ":memory:"
}

// OutputSettings contains settings for the database output
type OutputSettings struct {
	SQLite SQLiteSettings
}

// WebServerSettings contains settings for the HTTP API server
type WebServerSettings struct {
	Enabled bool      // true to enable the web server
	Host    string    // host to bind
	Port    string    // port to listen on
	Debug   bool      // true to enable debug logging of requests
	Log     LogConfig // API log settings
}

// Reporting filter modes: filter reports by surrogate id or by natural key.
const (
	FilterModeID      = "id"
	FilterModeNatural = "natural"
)

// ReportsSettings contains settings for the reporting endpoints
type ReportsSettings struct {
	FilterMode string // "id" or "natural"
}

// Settings contains all application settings
type Settings struct {
	Debug bool // true to enable debug mode

	Main      MainSettings
	Output    OutputSettings
	WebServer WebServerSettings
	Reports   ReportsSettings
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/timesheet")
	viper.AddConfigPath("/etc/timesheet")

	viper.SetEnvPrefix("timesheet")
	viper.AutomaticEnv()

	setDefaultConfig()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config file is fine, defaults and env cover everything
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// Setting returns the current settings instance, loading it if needed.
func Setting() *Settings {
	settingsMutex.RLock()
	if settingsInstance != nil {
		defer settingsMutex.RUnlock()
		return settingsInstance
	}
	settingsMutex.RUnlock()

	settings, err := Load()
	if err != nil {
		return nil
	}
	return settings
}
