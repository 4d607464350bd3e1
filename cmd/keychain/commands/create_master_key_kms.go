package commands

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// RunCreateMasterKeyKMS seals a keychain's base64-encoded MasterKey (as
// printed by generate) through the configured KMS keeper and prints the
// resulting ciphertext for safekeeping. unlock-from-kms is the inverse.
//
// Security: for local development only, kms-provider=localsecrets with a
// base64key:// key-uri is fine. Production deployments should use
// kms-provider=hashivault against a real Vault transit key.
func RunCreateMasterKeyKMS(ctx context.Context, masterKeyStr string, io IOTuple) error {
	if err := validateFields(requiredField("master-key", masterKeyStr, appValidation.Base64)); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	kmsSource, err := container.KMSSource()
	if err != nil {
		return fmt.Errorf("failed to open kms source: %w", err)
	}
	if kmsSource == nil {
		return fmt.Errorf("no kms provider configured, set KMS_PROVIDER and KMS_KEY_URI")
	}

	masterKey, err := base64.StdEncoding.DecodeString(masterKeyStr)
	if err != nil {
		return fmt.Errorf("malformed master key: %w", err)
	}
	defer func() {
		for i := range masterKey {
			masterKey[i] = 0
		}
	}()

	ciphertext, err := kmsSource.EncryptMasterKey(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key via kms: %w", err)
	}

	logger.Info("sealed master key via kms")
	fmt.Fprintf(io.Writer, "MASTER_KEY_KMS_CIPHERTEXT=%q\n", base64.StdEncoding.EncodeToString(ciphertext))
	return nil
}
