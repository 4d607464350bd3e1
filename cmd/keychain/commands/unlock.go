package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	"github.com/allisson/keychain/internal/keychain/domain"
)

// RunUnlock unlocks the current() singleton keychain using a password and
// its PasswordToken, as issued by issue-token. Wrong password and
// structural token failures are both reported, but only the former is
// attributable to the caller's input per domain.ErrInvalidPassword.
func RunUnlock(ctx context.Context, password, token string, io IOTuple) error {
	if err := validateFields(
		requiredField("password", password),
		requiredField("token", token),
	); err != nil {
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

	err = kc.Unlock(password, token)
	recordOperation(container, logger, "unlock_password", err)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			logger.Warn("unlock rejected: invalid password")
			return fmt.Errorf("invalid password")
		}
		logger.Warn("unlock rejected", slog.Any("error", err))
		return fmt.Errorf("unlock failed: %w", err)
	}

	fmt.Fprintln(io.Writer, "unlocked: true")
	return nil
}
