// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateOutputSettings(&settings.Output); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if err := validateReportsSettings(&settings.Reports); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateWebServerSettings validates web server specific settings
func validateWebServerSettings(settings *WebServerSettings) error {
	if !settings.Enabled {
		return nil
	}
	port, err := strconv.Atoi(settings.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid WebServer port: %s (must be between 1 and 65535)", settings.Port)
	}
	return nil
}

// validateOutputSettings validates database output settings
func validateOutputSettings(settings *OutputSettings) error {
	if settings.SQLite.Enabled && settings.SQLite.Path == "" {
		return fmt.Errorf("SQLite output enabled but no database path set")
	}
	return nil
}

// validateReportsSettings validates reporting settings
func validateReportsSettings(settings *ReportsSettings) error {
	switch settings.FilterMode {
	case FilterModeID, FilterModeNatural:
		return nil
	default:
		return fmt.Errorf("invalid reports filter mode: %s (must be %q or %q)",
			settings.FilterMode, FilterModeID, FilterModeNatural)
	}
}
