package commands

import (
	"context"
	"fmt"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// RunIssueToken unlocks the current() singleton keychain with masterKey and
// issues a fresh (password, PasswordToken) pair via
// GenerateKeychainPasswordAndToken, printing both. Since each CLI invocation
// is a new process, the keychain must be unlocked within this same
// invocation; masterKey is never persisted.
func RunIssueToken(ctx context.Context, masterKey string, io IOTuple) error {
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

	if err := kc.UnlockUsingMasterKey(masterKey); err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}
	defer kc.Close()

	password, token, err := kc.GenerateKeychainPasswordAndToken()
	recordOperation(container, logger, "issue_token", err)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("issued new keychain password token")
	fmt.Fprintf(io.Writer, "PASSWORD=%q\n", password)
	fmt.Fprintf(io.Writer, "TOKEN=%q\n", token)
	return nil
}
