package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
	"github.com/allisson/keychain/internal/keychain"
)

// RunGenerate creates a brand-new keychain identity and prints its
// KeychainKey, MasterKey, and UUID to io.Writer. This is the only moment
// these values exist in cleartext together; the caller is responsible for
// distributing KeychainKey as the process's KEYCHAIN_KEY configuration and
// sealing MasterKey (e.g. via unlock-from-kms after create-master-key-kms,
// or a secrets manager) before the process exits.
func RunGenerate(ctx context.Context, io IOTuple) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	kc, err := keychain.Generate(container.Entropy())
	recordOperation(container, logger, "generate", err)
	if err != nil {
		return fmt.Errorf("failed to generate keychain: %w", err)
	}

	uuid, err := kc.UUID()
	if err != nil {
		return fmt.Errorf("failed to read generated uuid: %w", err)
	}
	keychainKey, err := kc.KeychainKey()
	if err != nil {
		return fmt.Errorf("failed to read generated keychain key: %w", err)
	}
	masterKey, err := kc.MasterKey()
	if err != nil {
		return fmt.Errorf("failed to read generated master key: %w", err)
	}

	logger.Info("generated new keychain", slog.String("uuid", uuid))

	fmt.Fprintln(io.Writer, "# Keychain identity — store these now, they will not be shown again")
	fmt.Fprintf(io.Writer, "KEYCHAIN_UUID=%q\n", uuid)
	fmt.Fprintf(io.Writer, "KEYCHAIN_KEY=%q\n", keychainKey)
	fmt.Fprintf(io.Writer, "MASTER_KEY=%q\n", masterKey)
	return nil
}
