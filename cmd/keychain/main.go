// Package main provides the entry point for the keychain CLI.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keychain/cmd/keychain/commands"
)

func main() {
	io := commands.DefaultIO()

	cmd := &cli.Command{
		Name:    "keychain",
		Usage:   "Envelope-encryption vault for application credentials",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a new keychain identity (KeychainKey, MasterKey, UUID)",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunGenerate(ctx, io)
				},
			},
			{
				Name:  "status",
				Usage: "Show the current keychain's uuid and lock state",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunStatus(ctx, io)
				},
			},
			{
				Name:  "unlock",
				Usage: "Unlock the current keychain with a password and PasswordToken",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "password", Required: true, Usage: "Keychain password"},
					&cli.StringFlag{Name: "token", Required: true, Usage: "PasswordToken issued by issue-token"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunUnlock(ctx, cmd.String("password"), cmd.String("token"), io)
				},
			},
			{
				Name:  "unlock-master-key",
				Usage: "Unlock the current keychain directly from a base64 MasterKey",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "master-key", Required: true, Usage: "Base64-encoded MasterKey"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunUnlockMasterKey(ctx, cmd.String("master-key"), io)
				},
			},
			{
				Name:  "unlock-from-kms",
				Usage: "Unlock the current keychain from a KMS-sealed MasterKey ciphertext",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ciphertext", Required: true, Usage: "Base64-encoded KMS ciphertext"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunUnlockFromKMS(ctx, cmd.String("ciphertext"), io)
				},
			},
			{
				Name:  "issue-token",
				Usage: "Unlock with a MasterKey and issue a fresh password + PasswordToken",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "master-key", Required: true, Usage: "Base64-encoded MasterKey"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunIssueToken(ctx, cmd.String("master-key"), io)
				},
			},
			{
				Name:  "encrypt",
				Usage: "Encrypt a value under the current keychain's credentials",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "value", Required: true, Usage: "Plaintext value to encrypt"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunEncrypt(ctx, cmd.String("value"), io)
				},
			},
			{
				Name:  "decrypt",
				Usage: "Unlock and decrypt a token produced by encrypt",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "token", Required: true, Usage: "Token produced by encrypt"},
					&cli.StringFlag{Name: "master-key", Usage: "Base64-encoded MasterKey"},
					&cli.StringFlag{Name: "password", Usage: "Keychain password"},
					&cli.StringFlag{Name: "password-token", Usage: "PasswordToken issued by issue-token"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDecrypt(
						ctx,
						cmd.String("token"),
						cmd.String("master-key"),
						cmd.String("password"),
						cmd.String("password-token"),
						io,
					)
				},
			},
			{
				Name:  "export-keychain-key",
				Usage: "Re-derive and print the KeychainKey from a KeychainKey + MasterKey pair",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keychain-key", Required: true, Usage: "KeychainKey"},
					&cli.StringFlag{Name: "master-key", Required: true, Usage: "Base64-encoded MasterKey"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunExportKeychainKey(ctx, cmd.String("keychain-key"), cmd.String("master-key"), io)
				},
			},
			{
				Name:  "export-master-key",
				Usage: "Re-derive and print the MasterKey from a KeychainKey + MasterKey pair",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "keychain-key", Required: true, Usage: "KeychainKey"},
					&cli.StringFlag{Name: "master-key", Required: true, Usage: "Base64-encoded MasterKey"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunExportMasterKey(ctx, cmd.String("keychain-key"), cmd.String("master-key"), io)
				},
			},
			{
				Name:  "create-master-key-kms",
				Usage: "Seal a MasterKey through the configured KMS keeper",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "master-key", Required: true, Usage: "Base64-encoded MasterKey to seal"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateMasterKeyKMS(ctx, cmd.String("master-key"), io)
				},
			},
			{
				Name:  "serve-metrics",
				Usage: "Serve Prometheus metrics for keychain business operations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServeMetrics(ctx, io)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
