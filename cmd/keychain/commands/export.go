package commands

import (
	"context"
	"fmt"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	"github.com/allisson/keychain/internal/keychain"
	appValidation "github.com/allisson/keychain/internal/validation"
)

// RunExportKeychainKey reconstructs a Keychain from keychainKeyStr and
// masterKeyStr via AdoptWithSecret (can_retrieve_keys true, since both parts
// are already in the caller's hand) and re-prints its KeychainKey. This is
// mostly useful for validating that a stored KeychainKey and MasterKey pair
// still agree, since generate already prints both once.
func RunExportKeychainKey(ctx context.Context, keychainKeyStr, masterKeyStr string, io IOTuple) error {
	if err := validateFields(
		requiredField("keychain-key", keychainKeyStr),
		requiredField("master-key", masterKeyStr, appValidation.Base64),
	); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	kc, err := keychain.AdoptWithSecret(keychainKeyStr, masterKeyStr, container.Entropy())
	if err != nil {
		return fmt.Errorf("failed to adopt keychain: %w", err)
	}

	keychainKey, err := kc.KeychainKey()
	if err != nil {
		return fmt.Errorf("failed to read keychain key: %w", err)
	}

	fmt.Fprintf(io.Writer, "KEYCHAIN_KEY=%q\n", keychainKey)
	return nil
}

// RunExportMasterKey reconstructs a Keychain from keychainKeyStr and
// masterKeyStr via AdoptWithSecret and re-prints its MasterKey.
func RunExportMasterKey(ctx context.Context, keychainKeyStr, masterKeyStr string, io IOTuple) error {
	if err := validateFields(
		requiredField("keychain-key", keychainKeyStr),
		requiredField("master-key", masterKeyStr, appValidation.Base64),
	); err != nil {
		return err
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	kc, err := keychain.AdoptWithSecret(keychainKeyStr, masterKeyStr, container.Entropy())
	if err != nil {
		return fmt.Errorf("failed to adopt keychain: %w", err)
	}

	masterKey, err := kc.MasterKey()
	if err != nil {
		return fmt.Errorf("failed to read master key: %w", err)
	}

	fmt.Fprintf(io.Writer, "MASTER_KEY=%q\n", masterKey)
	return nil
}
