package commands

import (
	"context"
	"fmt"

	validation "github.com/jellydator/validation"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// RunDecrypt unlocks the current() singleton keychain and opens token,
// printing the recovered plaintext. Exactly one of masterKey or
// (password, passwordToken) must be supplied to perform the unlock;
// whichever is non-empty is used.
func RunDecrypt(ctx context.Context, token, masterKey, password, passwordToken string, io IOTuple) error {
	if err := validateFields(requiredField("token", token)); err != nil {
		return err
	}
	if masterKey != "" {
		if err := validation.Validate(masterKey, appValidation.NoWhitespace, appValidation.Base64); err != nil {
			return fmt.Errorf("master-key: %w", appValidation.WrapValidationError(err))
		}
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

	switch {
	case masterKey != "":
		if err := kc.UnlockUsingMasterKey(masterKey); err != nil {
			return fmt.Errorf("unlock failed: %w", err)
		}
	case password != "" && passwordToken != "":
		if err := kc.Unlock(password, passwordToken); err != nil {
			return fmt.Errorf("unlock failed: %w", err)
		}
	default:
		return fmt.Errorf("either --master-key or both --password and --password-token are required")
	}
	defer kc.Close()

	var plaintext string
	err = kc.DecryptCredential(token, &plaintext)
	recordOperation(container, logger, "decrypt_credential", err)
	if err != nil {
		return fmt.Errorf("failed to decrypt credential: %w", err)
	}

	logger.Info("decrypted credential")
	fmt.Fprintln(io.Writer, plaintext)
	return nil
}
