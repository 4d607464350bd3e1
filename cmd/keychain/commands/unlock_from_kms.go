package commands

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// RunUnlockFromKMS resolves the configured KMS keeper, decrypts
// ciphertextB64 (a base64-encoded KMS ciphertext wrapping the MasterKey,
// as produced by create-master-key-kms) and unlocks the current() singleton
// keychain with the recovered plaintext. Requires KMS_PROVIDER and
// KMS_KEY_URI to be configured.
func RunUnlockFromKMS(ctx context.Context, ciphertextB64 string, io IOTuple) error {
	if err := validateFields(requiredField("ciphertext", ciphertextB64, appValidation.Base64)); err != nil {
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

	kmsSource, err := container.KMSSource()
	if err != nil {
		return fmt.Errorf("failed to open kms source: %w", err)
	}
	if kmsSource == nil {
		return fmt.Errorf("no kms provider configured, set KMS_PROVIDER and KMS_KEY_URI")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return fmt.Errorf("malformed kms ciphertext: %w", err)
	}

	masterKey, err := kmsSource.DecryptMasterKey(ctx, ciphertext)
	if err != nil {
		return fmt.Errorf("failed to decrypt master key via kms: %w", err)
	}
	defer func() {
		for i := range masterKey {
			masterKey[i] = 0
		}
	}()

	err = kc.UnlockUsingMasterKey(base64.StdEncoding.EncodeToString(masterKey))
	recordOperation(container, logger, "unlock_kms", err)
	if err != nil {
		logger.Warn("unlock via kms rejected")
		return fmt.Errorf("unlock failed: %w", err)
	}

	fmt.Fprintln(io.Writer, "unlocked: true")
	return nil
}
