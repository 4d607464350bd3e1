// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/keychain/internal/config"
	"github.com/allisson/keychain/internal/entropy"
	"github.com/allisson/keychain/internal/keychain"
	"github.com/allisson/keychain/internal/kmssource"
	"github.com/allisson/keychain/internal/metrics"
	"github.com/allisson/keychain/internal/ratelimit"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger  *slog.Logger
	entropy entropy.Source

	// Managers
	keychainManager *keychain.Manager

	// Observability
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// KMS-backed master key recovery
	kmsSource *kmssource.Source

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	entropyInit         sync.Once
	keychainManagerInit sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	kmsSourceInit       sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Entropy returns the process-wide entropy source used by every encryptor
// and the Keychain aggregate for nonces, salts, and keypair seeds.
func (c *Container) Entropy() entropy.Source {
	c.entropyInit.Do(func() {
		c.entropy = entropy.New()
	})
	return c.entropy
}

// KeychainManager returns the current() singleton manager, configured to
// read its keychain_key from the container's configuration.
func (c *Container) KeychainManager() *keychain.Manager {
	c.keychainManagerInit.Do(func() {
		provider := func() (string, error) {
			if c.config.KeychainKey == "" {
				return "", fmt.Errorf("KEYCHAIN_KEY is not configured")
			}
			return c.config.KeychainKey, nil
		}
		c.keychainManager = keychain.NewManager(provider, c.Entropy())
	})
	return c.keychainManager
}

// UnlockLimiter returns a persisted rate limiter guarding unlock and
// token-issuance attempts for the keychain identified by keychainUUID, so a
// misconfigured caller retrying in a tight loop across separate CLI
// invocations cannot turn the Argon2id KDF into a CPU DoS surface or a
// password-guessing oracle. Its state lives under
// config.RateLimitStateDir and survives process exit, unlike an in-memory
// golang.org/x/time/rate.Limiter would. Returns nil if rate limiting is
// disabled in configuration. Unlike the container's other accessors this
// is not cached behind a sync.Once: the bucket it returns is keyed by the
// caller-supplied keychainUUID, which is only known after the keychain has
// been loaded.
func (c *Container) UnlockLimiter(keychainUUID string) *ratelimit.FileBucket {
	if !c.config.RateLimitEnabled {
		return nil
	}
	return ratelimit.NewFileBucket(
		c.config.RateLimitStateDir,
		keychainUUID,
		c.config.RateLimitRequestsPerSec,
		c.config.RateLimitBurst,
	)
}

// MetricsProvider returns the OpenTelemetry/Prometheus metrics provider.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the operation-metrics recorder for keychain
// operations (encrypt_credential, decrypt_credential, unlock, ...). Returns
// a no-op implementation when metrics are disabled in configuration.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		if !c.config.MetricsEnabled {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		provider, providerErr := c.MetricsProvider()
		if providerErr != nil {
			err = providerErr
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// KMSSource returns the optional KMS-backed master key resolver. Returns
// nil, nil when no KMS provider is configured.
func (c *Container) KMSSource() (*kmssource.Source, error) {
	var err error
	c.kmsSourceInit.Do(func() {
		if c.config.KMSProvider == "" {
			return
		}
		c.kmsSource, err = kmssource.Open(context.Background(), c.config.KMSProvider, c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["kmsSource"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsSource"]; exists {
		return nil, storedErr
	}
	return c.kmsSource, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.kmsSource != nil {
		if err := c.kmsSource.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms source close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
