package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Cheap parameters keep the suite fast; the encoding is identical.
var testParams = Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

func newTestHasher(t *testing.T, pepper string) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(testParams, pepper)
	require.NoError(t, err)
	return h
}

func TestHash(t *testing.T) {
	h := newTestHasher(t, "pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "m=1024,t=1,p=1", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			require.True(t, h.Verify(tt.password, hash))
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := newTestHasher(t, "")

	hash1, err := h.Hash("samepassword")
	require.NoError(t, err)
	hash2, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.True(t, h.Verify("samepassword", hash1))
	require.True(t, h.Verify("samepassword", hash2))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := newTestHasher(t, "pepper")
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		"correct-passwor",
		strings.Repeat("x", 10000),
	} {
		require.False(t, h.Verify(wrong, hash), "%q should not match", wrong)
	}
}

func TestVerify_PepperMismatch(t *testing.T) {
	hash, err := newTestHasher(t, "pepper-a").Hash("secret123")
	require.NoError(t, err)

	require.False(t, newTestHasher(t, "pepper-b").Verify("secret123", hash))
}

func TestVerify_MalformedHash(t *testing.T) {
	h := newTestHasher(t, "")

	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"plain text", "secret123"},
		{"wrong algorithm", "$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"missing parts", "$argon2id$v=19$m=1024"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"zero iterations", "$argon2id$v=19$m=1024,t=0,p=1$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"huge memory", "$argon2id$v=19$m=999999999,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"invalid base64 salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!invalid!!!$aGFzaGhhc2g"},
		{"invalid base64 hash", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g"},
		{"truncated bcrypt", "$2a$10$short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.False(t, h.Verify("secret123", tt.hash))
			})
		})
	}
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	h := newTestHasher(t, "pepper")

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, h.Verify("secret123", string(legacy)))
	require.False(t, h.Verify("secret124", string(legacy)))
	require.True(t, h.NeedsUpgrade(string(legacy)))
}

func TestNeedsUpgrade(t *testing.T) {
	h := newTestHasher(t, "")
	current, err := h.Hash("secret123")
	require.NoError(t, err)
	require.False(t, h.NeedsUpgrade(current))

	stronger := testParams
	stronger.Iterations = 3
	h2, err := NewPasswordHasher(stronger, "")
	require.NoError(t, err)
	require.True(t, h2.NeedsUpgrade(current))
	require.True(t, h2.Verify("secret123", current), "old parameters still verify")

	require.True(t, h.NeedsUpgrade("garbage"))
}

func TestNewPasswordHasher_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Argon2Params)
	}{
		{"zero iterations", func(p *Argon2Params) { p.Iterations = 0 }},
		{"zero parallelism", func(p *Argon2Params) { p.Parallelism = 0 }},
		{"tiny memory", func(p *Argon2Params) { p.Memory = 4 }},
		{"short key", func(p *Argon2Params) { p.KeyLength = 8 }},
		{"short salt", func(p *Argon2Params) { p.SaltLength = 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultArgon2Params()
			tt.mutate(&p)
			_, err := NewPasswordHasher(p, "")
			require.Error(t, err)
		})
	}
}
