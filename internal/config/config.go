package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the anonymization engine.
//
// Fields:
// - Env: The current environment (local, development, production).
// - HTTPAddr: Listen address for the HTTP API and monitoring endpoints.
// - ProviderType: The geocoding provider to use (nominatim, google).
// - APIKey: The API key for the geocoding provider (required for Google).
// - RadiusMeters: Discovery radius around the geocoded address.
// - CandidateCap: Maximum number of validated candidates per request.
// - StateFile: Path of the JSON file holding saved locations.
// - Namespace: Application namespace for notification action identifiers.
type Config struct {
	Env          string // Env is the current environment: local, development, production.
	HTTPAddr     string // HTTPAddr is the listen address for the HTTP API.
	ProviderType string // ProviderType specifies which geocoding provider to use.
	APIKey       string // The API key for accessing external geocoding services.
	RadiusMeters int    // The radius in meters for nearby place discovery.
	CandidateCap int    // The maximum number of validated candidates to consider.
	StateFile    string // The path of the saved-locations JSON file.
	Namespace    string // The namespace prefix for notification action identifiers.
}

// MustLoad loads the configuration from the environment, applying defaults
// where unset. A .env file in the working directory is honored if present.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetEnvPrefix("DELOCATOR")
	vpr.AutomaticEnv()

	vpr.SetDefault("ENV", "local")
	vpr.SetDefault("HTTP_ADDR", ":8080")
	vpr.SetDefault("PROVIDER_TYPE", "nominatim")
	vpr.SetDefault("RADIUS_METERS", 500)
	vpr.SetDefault("CANDIDATE_CAP", 10)
	vpr.SetDefault("STATE_FILE", "saved_locations.json")
	vpr.SetDefault("NAMESPACE", "com.delocator.app")

	cfg := &Config{
		Env:          vpr.GetString("ENV"),
		HTTPAddr:     vpr.GetString("HTTP_ADDR"),
		ProviderType: vpr.GetString("PROVIDER_TYPE"),
		APIKey:       vpr.GetString("PROVIDER_KEY"),
		RadiusMeters: vpr.GetInt("RADIUS_METERS"),
		CandidateCap: vpr.GetInt("CANDIDATE_CAP"),
		StateFile:    vpr.GetString("STATE_FILE"),
		Namespace:    vpr.GetString("NAMESPACE"),
	}

	if cfg.RadiusMeters <= 0 {
		panic("discovery radius must be a positive number of meters")
	}
	if cfg.CandidateCap <= 0 {
		panic("candidate cap must be a positive number")
	}

	return cfg
}
