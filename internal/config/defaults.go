package config

const (
	defaultBasePath           = "~/Documents/journal"
	defaultLogDir             = "~/.local/share/workjournal/logs"
	defaultTimezone           = "UTC"
	defaultSyncWorkers        = 4
	defaultFileTimeoutSeconds = 10
	defaultLogFormat          = ""
	defaultLogLevel           = "info"
	defaultConfigRelPath      = "~/.config/workjournal/config.toml"
	projectConfigName         = "workjournal.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BasePath: defaultBasePath,
			LogDir:   defaultLogDir,
		},
		WorkWeek: WorkWeek{
			Timezone: defaultTimezone,
		},
		Sync: Sync{
			Workers:            defaultSyncWorkers,
			FileTimeoutSeconds: defaultFileTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
