package app

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/streamly/accounts/pkg/cryptox"
	"github.com/streamly/accounts/pkg/jwtx"
)

// signingKeyID is stamped into the kid header of every token.
const signingKeyID = "primary"

// InitSigner builds the token signer for the configured algorithm.
//
// Key sources:
//   - HS256: ACCOUNTS_TOKEN_SECRET (at least 32 bytes).
//   - EdDSA: a PKCS8 PEM read from ACCOUNTS_TOKEN_KEY_FILE.
//
// In dev, a missing secret or key file is replaced by random key material
// held only in memory. Every token becomes invalid when the process restarts.
func InitSigner(cfg Config, logger *slog.Logger) (jwtx.Signer, error) {
	switch cfg.TokenAlgorithm {
	case jwtx.AlgorithmHS256:
		secret := []byte(cfg.TokenSecret)
		if len(secret) == 0 {
			if !cfg.IsDev() {
				return nil, fmt.Errorf("token secret is required outside %s", EnvDev)
			}
			var err error
			if secret, err = cryptox.GenerateSecret(cryptox.SecretSize256); err != nil {
				return nil, fmt.Errorf("failed to generate token secret: %w", err)
			}
			logger.Warn("no token secret configured, using an ephemeral one; tokens will not survive a restart")
		}
		return jwtx.NewSignerHS256(signingKeyID, secret)

	case jwtx.AlgorithmEdDSA:
		var pemKey []byte
		if cfg.TokenKeyFile != "" {
			raw, err := os.ReadFile(filepath.Clean(cfg.TokenKeyFile))
			if err != nil {
				return nil, fmt.Errorf("failed to read token key file: %w", err)
			}
			pemKey = raw
		} else {
			if !cfg.IsDev() {
				return nil, fmt.Errorf("token key file is required outside %s", EnvDev)
			}
			key, err := cryptox.NewSigningKey()
			if err != nil {
				return nil, err
			}
			pemKey = key.PrivatePEM
			logger.Warn("no token key file configured, using an ephemeral Ed25519 key; tokens will not survive a restart")
		}
		return jwtx.NewSignerEdDSA(signingKeyID, pemKey)

	default:
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.TokenAlgorithm)
	}
}
