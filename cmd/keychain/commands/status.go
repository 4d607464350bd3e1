package commands

import (
	"context"
	"fmt"

	"github.com/allisson/keychain/internal/app"
	"github.com/allisson/keychain/internal/config"
)

// RunStatus prints the current() singleton's uuid and lock state without
// requiring any credentials beyond KEYCHAIN_KEY.
func RunStatus(ctx context.Context, io IOTuple) error {
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
		return fmt.Errorf("failed to read uuid: %w", err)
	}

	fmt.Fprintf(io.Writer, "uuid: %s\n", uuid)
	fmt.Fprintf(io.Writer, "unlocked: %t\n", kc.IsUnlocked())
	return nil
}
