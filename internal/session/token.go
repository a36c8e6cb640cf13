package session

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cmmeyer1800/accountabilidash/internal/app"
)

// TokenStore persists the one piece of durable client state: the bearer
// token, a single string in a fixed file under the config dir. Write and
// remove failures degrade to an unauthenticated session on next load
// instead of failing the caller.
type TokenStore struct {
	path string
	log  *zap.Logger
}

func NewTokenStore(configDir string, log *zap.Logger) *TokenStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenStore{path: app.TokenPath(configDir), log: log}
}

// Load returns the stored token, or "" when none is stored or the file is
// unreadable.
func (s *TokenStore) Load() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *TokenStore) Save(token string) {
	if err := app.EnsureDir(filepath.Dir(s.path)); err != nil {
		s.log.Warn("token not persisted", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		s.log.Warn("token not persisted", zap.Error(err))
	}
}

func (s *TokenStore) Clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("token not removed", zap.Error(err))
	}
}
