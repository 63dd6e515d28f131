package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vendinha-dev/vendinha/internal/config"
)

// MarkerFile records an authenticated session inside the workspace.
const MarkerFile = ".session"

var (
	ErrWrongPassword    = errors.New("wrong password")
	ErrWrongPhrase      = errors.New("wrong recovery phrase")
	ErrNotAuthenticated = errors.New("not logged in: run `vendinha login` first")
)

// Gate is the shop's single shared-secret login. It only guards the CLI
// against casual use; it is not an access-control mechanism.
type Gate struct {
	secret string
	phrase string
	marker string
}

// NewGate returns a gate for the workspace at root.
func NewGate(root string, cfg config.SessionConfig) *Gate {
	return &Gate{
		secret: cfg.Secret,
		phrase: cfg.RecoveryPhrase,
		marker: filepath.Join(root, MarkerFile),
	}
}

// Login opens a session when password matches the secret.
func (g *Gate) Login(password string) error {
	if password != g.secret {
		return ErrWrongPassword
	}
	if err := os.WriteFile(g.marker, []byte("true\n"), 0o600); err != nil {
		return fmt.Errorf("writing session marker: %w", err)
	}
	return nil
}

// Logout closes the session. Logging out twice is not an error.
func (g *Gate) Logout() error {
	if err := os.Remove(g.marker); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session marker: %w", err)
	}
	return nil
}

// Authenticated reports whether a session is open.
func (g *Gate) Authenticated() bool {
	data, err := os.ReadFile(g.marker)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "true"
}

// Require returns ErrNotAuthenticated unless a session is open.
func (g *Gate) Require() error {
	if !g.Authenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// Recover reveals the secret when phrase matches the recovery phrase.
func (g *Gate) Recover(phrase string) (string, error) {
	if g.phrase == "" || phrase != g.phrase {
		return "", ErrWrongPhrase
	}
	return g.secret, nil
}
