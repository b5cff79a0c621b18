// conf/defaults.go default values for settings
package conf

import "github.com/spf13/viper"

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "timesheet")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/timesheet.log")

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "timesheet.db")

	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.host", "0.0.0.0")
	viper.SetDefault("webserver.port", "8001")
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.log.enabled", true)
	viper.SetDefault("webserver.log.path", "logs/api.log")

	viper.SetDefault("reports.filtermode", FilterModeID)
}
