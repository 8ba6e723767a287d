package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params is the cost configuration of the Argon2id hasher.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultArgon2Params follow the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      19 * 1024,
		Iterations:  2,
		Parallelism: 1,
		KeyLength:   32,
		SaltLength:  16,
	}
}

// Validate rejects parameters argon2 cannot run with.
func (p Argon2Params) Validate() error {
	switch {
	case p.Iterations == 0:
		return errors.New("cryptox: argon2 iterations must be positive")
	case p.Memory < 8*uint32(max(p.Parallelism, 1)):
		return errors.New("cryptox: argon2 memory too small for parallelism")
	case p.Parallelism == 0:
		return errors.New("cryptox: argon2 parallelism must be positive")
	case p.KeyLength < 16:
		return errors.New("cryptox: argon2 key length must be at least 16 bytes")
	case p.SaltLength < 8:
		return errors.New("cryptox: argon2 salt length must be at least 8 bytes")
	}
	return nil
}

// PasswordHasher produces and checks salted, adaptive-cost password hashes.
//
// New hashes are Argon2id PHC strings. Verify also accepts bcrypt hashes so
// accounts created by older deployments can still sign in; NeedsUpgrade then
// reports true and the caller can store a fresh hash.
type PasswordHasher struct {
	params Argon2Params
	pepper string
}

// NewPasswordHasher returns a hasher with the given cost. The pepper is appended
// to every password before hashing and may be empty.
func NewPasswordHasher(params Argon2Params, pepper string) (*PasswordHasher, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &PasswordHasher{params: params, pepper: pepper}, nil
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}

	sum := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify reports whether password matches the encoded hash. Malformed or
// unsupported hashes never match.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	if isBcryptHash(encoded) {
		return verifyBcrypt(password, encoded)
	}

	phc, err := parseArgon2id(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		phc.salt,
		phc.params.Iterations,
		phc.params.Memory,
		phc.params.Parallelism,
		phc.params.KeyLength,
	)
	return subtle.ConstantTimeCompare(computed, phc.sum) == 1
}

// NeedsUpgrade reports whether encoded was produced by another algorithm or
// with parameters different from the hasher's current ones.
func (h *PasswordHasher) NeedsUpgrade(encoded string) bool {
	phc, err := parseArgon2id(encoded)
	if err != nil {
		return true
	}
	p := phc.params
	return p.Memory != h.params.Memory ||
		p.Iterations != h.params.Iterations ||
		p.Parallelism != h.params.Parallelism ||
		p.KeyLength != h.params.KeyLength
}

// maxArgon2Memory caps the memory a stored hash may request (4 GiB).
const maxArgon2Memory = 4 * 1024 * 1024

type argon2idHash struct {
	params Argon2Params
	salt   []byte
	sum    []byte
}

// parseArgon2id splits $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func parseArgon2id(encoded string) (argon2idHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return argon2idHash{}, errors.New("cryptox: invalid hash format")
	}
	if parts[1] != "argon2id" {
		return argon2idHash{}, errors.New("cryptox: not argon2id")
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return argon2idHash{}, errors.New("cryptox: unsupported argon2 version")
	}

	var mem, iters, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return argon2idHash{}, fmt.Errorf("cryptox: parse parameters: %w", err)
	}
	if iters == 0 || par == 0 || par > 255 || mem == 0 || mem > maxArgon2Memory {
		return argon2idHash{}, errors.New("cryptox: parameters out of range")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2idHash{}, fmt.Errorf("cryptox: decode salt: %w", err)
	}
	sum, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2idHash{}, fmt.Errorf("cryptox: decode hash: %w", err)
	}
	if len(salt) == 0 || len(sum) == 0 || len(sum) > 1024 {
		return argon2idHash{}, errors.New("cryptox: invalid salt or hash length")
	}

	return argon2idHash{
		params: Argon2Params{
			Memory:      mem,
			Iterations:  iters,
			Parallelism: uint8(par),        // #nosec G115 - bounded above
			KeyLength:   uint32(len(sum)),  // #nosec G115 - bounded above
			SaltLength:  uint32(len(salt)), // #nosec G115 - bounded by input
		},
		salt: salt,
		sum:  sum,
	}, nil
}
