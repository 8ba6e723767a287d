package cryptox

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const pepperLength = 32

// LoadOrCreatePepper reads the pepper stored at path. When the file does not
// exist a new random pepper is generated and written with 0600 permissions.
// An empty path disables peppering.
//
// The pepper must survive restarts: losing it invalidates every stored hash.
func LoadOrCreatePepper(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	path = filepath.Clean(path)
	raw, err := os.ReadFile(path)
	if err == nil {
		pepper := strings.TrimSpace(string(raw))
		if pepper == "" {
			return "", errors.New("cryptox: pepper file is empty")
		}
		return pepper, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	pepper, err := GenerateToken(pepperLength)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(pepper), 0o600); err != nil {
		return "", err
	}
	return pepper, nil
}
