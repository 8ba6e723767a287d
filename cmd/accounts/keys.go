package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/streamly/accounts/pkg/cryptox"
)

// NewGenSecretCmd creates the gen-secret subcommand.
func NewGenSecretCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "gen-secret",
		Short: "Print a random HS256 secret",
		Long:  `Print a random base64url secret suitable for ACCOUNTS_TOKEN_SECRET.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < cryptox.SecretSize256 {
				return fmt.Errorf("size must be at least %d bytes", cryptox.SecretSize256)
			}
			secret, err := cryptox.GenerateToken(size)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), secret)
			return err
		},
	}

	cmd.Flags().IntVar(&size, "size", cryptox.SecretSize256, "random bytes before encoding")
	return cmd
}

// NewGenKeyCmd creates the gen-key subcommand.
func NewGenKeyCmd() *cobra.Command {
	var (
		out       string
		publicOut string
	)

	cmd := &cobra.Command{
		Use:   "gen-key",
		Short: "Write a new Ed25519 signing key",
		Long: `Write a PKCS8 PEM Ed25519 private key suitable for ACCOUNTS_TOKEN_KEY_FILE.

With --public-out the matching public key is written as well, for services
that verify tokens without being able to issue them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if publicOut != "" && out == "" {
				return errors.New("--public-out requires --out")
			}
			key, err := cryptox.NewSigningKey()
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(key.PrivatePEM)
				return err
			}

			if err := writeNewFile(out, key.PrivatePEM, 0o600); err != nil {
				return err
			}
			cmd.Printf("Wrote Ed25519 key to %s\n", out)

			if publicOut != "" {
				if err := writeNewFile(publicOut, key.PublicPEM, 0o644); err != nil {
					return err
				}
				cmd.Printf("Wrote public key to %s\n", publicOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write (stdout when empty)")
	cmd.Flags().StringVar(&publicOut, "public-out", "", "also write the public key here (requires --out)")
	return cmd
}

// writeNewFile refuses to replace an existing file: tokens may already be
// signed with the key it holds.
func writeNewFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
