package wrap

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/keywarden/keywarden/interfaces"
)

// DefaultMachineSecretPath is where the machine-scoped wrapping secret
// lives by default. Writable only with administrative privileges, which is
// what ties the secret to the machine rather than to an account.
const DefaultMachineSecretPath = "/etc/keywarden/machine.secret"

// Platform implements interfaces.WrapCapability with keyfile-backed AEAD
// encryptors. The user-scoped secret lives inside the current user's
// profile, the machine-scoped one under an administrative path. Building
// an encryptor provisions the keyfile on first use and doubles as the
// feasibility check.
type Platform struct {
	userSecretPath    func() (string, error)
	machineSecretPath string
	log               *slog.Logger
}

// NewPlatform creates the platform wrap capability with default secret
// locations.
func NewPlatform(log *slog.Logger) *Platform {
	return &Platform{
		userSecretPath: func() (string, error) {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			return filepath.Join(home, ".keywarden", "user.secret"), nil
		},
		machineSecretPath: DefaultMachineSecretPath,
		log:               log,
	}
}

// WithUserSecretPath overrides the user-scoped secret location.
func (p *Platform) WithUserSecretPath(path string) *Platform {
	p.userSecretPath = func() (string, error) { return path, nil }
	return p
}

// WithMachineSecretPath overrides the machine-scoped secret location.
func (p *Platform) WithMachineSecretPath(path string) *Platform {
	p.machineSecretPath = path
	return p
}

// SupportsUserScope reports whether wrapping to the current account is
// supported on this platform.
func (p *Platform) SupportsUserScope() bool { return true }

// SupportsMachineScope reports whether machine-wide wrapping is supported.
func (p *Platform) SupportsMachineScope() bool { return true }

// UserEncryptor provisions the account-scoped secret and builds an
// encryptor around it. Failure means wrapping to the current account is
// not feasible.
func (p *Platform) UserEncryptor() (interfaces.KeyEncryptor, error) {
	path, err := p.userSecretPath()
	if err != nil {
		return nil, fmt.Errorf("no user profile for wrap secret: %w", err)
	}

	secret, err := loadOrCreateSecret(path)
	if err != nil {
		return nil, err
	}

	p.log.Debug("User wrap secret ready", slog.String("path", path))
	return NewAEADEncryptor(secret, interfaces.WrapScopeUser)
}

// MachineEncryptor provisions the machine-scoped secret and builds an
// encryptor around it.
func (p *Platform) MachineEncryptor() (interfaces.KeyEncryptor, error) {
	secret, err := loadOrCreateSecret(p.machineSecretPath)
	if err != nil {
		return nil, err
	}

	p.log.Debug("Machine wrap secret ready", slog.String("path", p.machineSecretPath))
	return NewAEADEncryptor(secret, interfaces.WrapScopeMachine)
}

// Unsupported is the wrap capability installed on platforms without key
// wrapping. Every probe answers false and encryptor construction fails
// with ErrWrapUnsupported.
type Unsupported struct{}

// SupportsUserScope always reports false.
func (Unsupported) SupportsUserScope() bool { return false }

// SupportsMachineScope always reports false.
func (Unsupported) SupportsMachineScope() bool { return false }

// UserEncryptor always fails with ErrWrapUnsupported.
func (Unsupported) UserEncryptor() (interfaces.KeyEncryptor, error) {
	return nil, interfaces.ErrWrapUnsupported
}

// MachineEncryptor always fails with ErrWrapUnsupported.
func (Unsupported) MachineEncryptor() (interfaces.KeyEncryptor, error) {
	return nil, interfaces.ErrWrapUnsupported
}

// loadOrCreateSecret reads the wrapping secret at path, generating a fresh
// random one with owner-only permissions on first use.
func loadOrCreateSecret(path string) ([]byte, error) {
	secret, err := os.ReadFile(path)
	if err == nil {
		if len(secret) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("wrap secret %s has invalid size %d", path, len(secret))
		}
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read wrap secret: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create wrap secret directory: %w", err)
	}

	secret = make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("failed to generate wrap secret: %w", err)
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("failed to write wrap secret: %w", err)
	}
	return secret, nil
}
