package conf

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() *Settings {
	s := &Settings{}
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "timesheet.db"
	s.WebServer.Enabled = true
	s.WebServer.Port = "8001"
	s.Reports.FilterMode = FilterModeID
	return s
}

func TestValidateSettingsAcceptsDefaults(t *testing.T) {
	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateSettingsRejectsBadPort(t *testing.T) {
	for _, port := range []string{"", "0", "70000", "http"} {
		s := validSettings()
		s.WebServer.Port = port
		err := ValidateSettings(s)
		require.Error(t, err, "port %q should be rejected", port)
		assert.Contains(t, err.Error(), "port")
	}

	// A disabled web server skips port validation entirely.
	s := validSettings()
	s.WebServer.Enabled = false
	s.WebServer.Port = ""
	assert.NoError(t, ValidateSettings(s))
}

func TestValidateSettingsRejectsMissingDatabasePath(t *testing.T) {
	s := validSettings()
	s.Output.SQLite.Path = ""
	require.Error(t, ValidateSettings(s))
}

func TestValidateSettingsRejectsUnknownFilterMode(t *testing.T) {
	s := validSettings()
	s.Reports.FilterMode = "fuzzy"
	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter mode")
}

func TestDefaultConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaultConfig()

	settings := &Settings{}
	require.NoError(t, viper.Unmarshal(settings))
	require.NoError(t, ValidateSettings(settings))

	assert.Equal(t, "timesheet", settings.Main.Name)
	assert.Equal(t, "timesheet.db", settings.Output.SQLite.Path)
	assert.Equal(t, "8001", settings.WebServer.Port)
	assert.Equal(t, FilterModeID, settings.Reports.FilterMode)
}
