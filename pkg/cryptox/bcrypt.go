package cryptox

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Prefixes written by bcrypt implementations. Hashes imported from the
// previous deployment use $2a$ with no pepper.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

func isBcryptHash(encoded string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(encoded, p) {
			return true
		}
	}
	return false
}

// verifyBcrypt compares in constant time inside bcrypt. Any error, including
// a malformed hash, is a mismatch.
func verifyBcrypt(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
}
