package config

// Config is the application configuration for the deployment engine.
type Config struct {
	Store  StoreConfig  `koanf:"store"  validate:"required"`
	Deploy DeployConfig `koanf:"deploy"`
	Log    LogConfig    `koanf:"log"`
}

// StoreConfig configures the schema fragment store.
type StoreConfig struct {
	// Dir is the root directory of the versioned fragment store. Each
	// business category lives under <Dir>/<category-id>/.
	Dir string `koanf:"dir" validate:"required"`
	// CacheSize bounds the loader's schema cache (entries, not bytes).
	CacheSize int `koanf:"cache_size" validate:"gte=1"`
}

// DeployConfig configures deployment-pipeline policy.
type DeployConfig struct {
	// StrictConsistency makes orphan categories fatal. When false they are
	// logged as warnings and deployment proceeds.
	StrictConsistency bool `koanf:"strict_consistency"`
	// MaxRosterSlots caps the number of team-member slots resolvable in
	// label names and placeholder tokens.
	MaxRosterSlots int `koanf:"max_roster_slots" validate:"gte=1,lte=10"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `koanf:"level"  validate:"oneof=debug info warn error"`
	JSON   bool   `koanf:"json"`
	Source bool   `koanf:"source"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Dir:       "./schemas",
			CacheSize: 64,
		},
		Deploy: DeployConfig{
			StrictConsistency: true,
			MaxRosterSlots:    5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
