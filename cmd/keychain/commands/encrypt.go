package commands

import (
	"context"
	"fmt"

	validation "github.com/jellydator/validation"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// RunEncrypt seals value under the current() singleton keychain's
// credentials and prints the resulting token. No unlock is required; this
// is the write path a read-only process must still support.
func RunEncrypt(ctx context.Context, value string, io IOTuple) error {
	if err := validation.Validate(value, validation.Required); err != nil {
		return fmt.Errorf("value: %w", appValidation.WrapValidationError(err))
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	kc, err := container.KeychainManager().Current()
	if err != nil {
		return fmt.Errorf("failed to load current keychain: %w", err)
	}

	token, err := kc.EncryptCredential(value)
	recordOperation(container, logger, "encrypt_credential", err)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	logger.Info("encrypted credential")
	fmt.Fprintln(io.Writer, token)
	return nil
}
