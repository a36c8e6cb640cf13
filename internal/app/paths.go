package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName    = "accountabilidash"
	tokenFileName = "token"
)

// DefaultConfigDir resolves the per-user directory that holds the one piece
// of durable client state (the bearer token file).
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// TokenPath returns the token file path inside dir.
func TokenPath(dir string) string {
	return filepath.Join(dir, tokenFileName)
}

func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return nil
}
