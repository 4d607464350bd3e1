// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// KeychainKey is the serialized three-part public identity (uuid,
	// general key, pair public) current() adopts on first use. Empty
	// means the operator must unlock from a master key or password
	// instead of relying on environment-provided configuration.
	KeychainKey string

	// MasterKey is the optional base64-encoded pair secret used to
	// unlock the current() keychain automatically at startup. Leave
	// empty to require an explicit unlock command.
	MasterKey string

	// KMSProvider selects the gocloud.dev/secrets driver used to resolve
	// a master key from a KMS-backed keeper (e.g., "hashivault",
	// "localsecrets"). Empty disables KMS-backed unlock.
	KMSProvider string
	// KMSKeyURI is the gocloud.dev/secrets keeper URI for the selected
	// provider.
	KMSKeyURI string

	// RateLimitEnabled indicates whether unlock-attempt rate limiting is
	// enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of unlock attempts allowed
	// per second.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for unlock-attempt rate limiting.
	RateLimitBurst int
	// RateLimitStateDir is where the unlock rate limiter persists its
	// token bucket state, so the limit survives across separate CLI
	// invocations rather than resetting on every process start.
	RateLimitStateDir string

	// MetricsEnabled indicates whether operation metrics collection is
	// enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number the serve-metrics command binds to.
	MetricsPort int

	// GeneratedPasswordLength is the length of passwords drawn by
	// generate_keychain_password_and_token.
	GeneratedPasswordLength int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Keychain identity and unlock
		KeychainKey: env.GetString("KEYCHAIN_KEY", ""),
		MasterKey:   env.GetString("MASTER_KEY", ""),

		// KMS configuration
		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),

		// Rate limiting (unlock / token issuance)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 5.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 10),
		RateLimitStateDir:       env.GetString("RATE_LIMIT_STATE_DIR", filepath.Join(os.TempDir(), "keychain-ratelimit")),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "keychain"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		GeneratedPasswordLength: env.GetInt("GENERATED_PASSWORD_LENGTH", 32),
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
