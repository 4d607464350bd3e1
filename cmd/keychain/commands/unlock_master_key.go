package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	"github.com/allisson/keychain/internal/keychain/domain"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// RunUnlockMasterKey unlocks the current() singleton keychain directly from
// a base64-encoded MasterKey, bypassing the password/PasswordToken layer.
// A master key that doesn't correspond to this keychain's pair public key
// fails as domain.ErrInvalidCredential.
func RunUnlockMasterKey(ctx context.Context, masterKey string, io IOTuple) error {
	if err := validateFields(requiredField("master-key", masterKey, appValidation.Base64)); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	kc, err := container.KeychainManager().Current()
	if err != nil {
		return fmt.Errorf("failed to load current keychain: %w", err)
	}

	uuid, err := kc.UUID()
	if err != nil {
		return fmt.Errorf("failed to read keychain uuid: %w", err)
	}
	if err := checkUnlockLimiter(container, uuid); err != nil {
		return err
	}

	err = kc.UnlockUsingMasterKey(masterKey)
	recordOperation(container, logger, "unlock_master_key", err)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			logger.Warn("unlock rejected: master key does not match keychain identity")
			return fmt.Errorf("invalid master key")
		}
		logger.Warn("unlock rejected", slog.Any("error", err))
		return fmt.Errorf("unlock failed: %w", err)
	}

	fmt.Fprintln(io.Writer, "unlocked: true")
	return nil
}
