package config

import (
	"ids-dashboard/backend/system"

	"github.com/joho/godotenv"
)

// Config holds process-level settings read once at startup.
type Config struct {
	Port        int
	MetricsPort int

	DBPath string
	LogDir string

	// DefaultSource is the traffic source the arbiter starts in.
	// Invalid values are resolved to "live" by the arbiter itself.
	DefaultSource string

	// GeneratorIntervalMs is the delay between synthetic live flows.
	GeneratorIntervalMs int

	// FeaturesPath points to the model's feature_names.json. Empty means
	// the classifier falls back to its built-in feature set.
	FeaturesPath string

	JWTSecret string
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		system.Info("Loaded configuration from .env")
	}

	return Config{
		Port:                system.GetEnvInt("IDS_PORT", 8080),
		MetricsPort:         system.GetEnvInt("IDS_METRICS_PORT", 9090),
		DBPath:              system.GetEnvString("IDS_DB_PATH", "ids-dashboard.db"),
		LogDir:              system.GetEnvString("IDS_LOG_DIR", "./logs"),
		DefaultSource:       system.GetEnvString("IDS_DEFAULT_SOURCE", "live"),
		GeneratorIntervalMs: system.GetEnvInt("IDS_GENERATOR_MS", 1000),
		FeaturesPath:        system.GetEnvString("IDS_FEATURES_PATH", ""),
		JWTSecret:           system.GetEnvString("IDS_JWT_SECRET", ""),
	}
}
