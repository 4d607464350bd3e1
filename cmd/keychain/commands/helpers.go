// Package commands contains CLI command implementations for the keychain tool.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	validation "github.com/jellydator/validation"

	"github.com/allisson/keychain/internal/app"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// metricsDomain labels every business metric this CLI records.
const metricsDomain = "keychain"

// errRateLimited is returned when a caller exceeds the configured unlock
// rate, before any password-guessing work (the Argon2id derivation) runs.
var errRateLimited = errors.New("unlock rate limit exceeded")

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// checkUnlockLimiter consults the persisted unlock limiter for
// keychainUUID, if rate limiting is configured, so a misbehaving caller
// retrying in a tight loop across separate CLI invocations cannot turn the
// Argon2id KDF into a CPU DoS surface or a password-guessing oracle.
func checkUnlockLimiter(container *app.Container, keychainUUID string) error {
	limiter := container.UnlockLimiter(keychainUUID)
	if limiter == nil {
		return nil
	}
	allowed, err := limiter.Allow()
	if err != nil {
		return err
	}
	if !allowed {
		return errRateLimited
	}
	return nil
}

// field pairs a CLI argument's name with its value and the rules it must
// satisfy, for use with validateFields.
type field struct {
	name  string
	value string
	rules []validation.Rule
}

// requiredField is a field that must be present and free of stray leading
// or trailing whitespace, the common shape of a credential pasted from
// another command's output.
func requiredField(name, value string, extra ...validation.Rule) field {
	rules := append([]validation.Rule{validation.Required, appValidation.NotBlank, appValidation.NoWhitespace}, extra...)
	return field{name: name, value: value, rules: rules}
}

// validateFields runs jellydator/validation over each field's rules in
// order and returns on the first failure, wrapped as a domain
// ErrInvalidInput naming the offending argument.
func validateFields(fields ...field) error {
	for _, f := range fields {
		if err := validation.Validate(f.value, f.rules...); err != nil {
			return fmt.Errorf("%s: %w", f.name, appValidation.WrapValidationError(err))
		}
	}
	return nil
}

// recordOperation records a business metric for operation, deriving status
// from whether opErr is nil. Metrics initialization failures are logged and
// otherwise swallowed: a broken metrics pipeline must never fail a keychain
// operation.
func recordOperation(container *app.Container, logger *slog.Logger, operation string, opErr error) {
	businessMetrics, err := container.BusinessMetrics()
	if err != nil {
		logger.Warn("business metrics unavailable", slog.Any("error", err))
		return
	}
	status := "success"
	if opErr != nil {
		status = "error"
	}
	businessMetrics.RecordOperation(context.Background(), metricsDomain, operation, status)
}
