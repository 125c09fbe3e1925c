package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// KeyID uniquely identifies a key held by a repository.
type KeyID string

// NewKeyID generates a random key identifier.
func NewKeyID() KeyID {
	return KeyID(uuid.Must(uuid.NewRandom()).String())
}

// String returns the identifier as a plain string.
func (id KeyID) String() string {
	return string(id)
}

// ServiceKind identifies a capability resolved during startup.
// All kinds are singleton (first registration wins) except ServiceKeyEscrowSink,
// which allows multiple registrations.
type ServiceKind int

const (
	// ServiceKeyRepository is the durable storage location for wrapped key material.
	ServiceKeyRepository ServiceKind = iota
	// ServiceKeyEncryptor wraps key material at rest.
	ServiceKeyEncryptor
	// ServiceAlgorithmConfiguration protects application payloads.
	ServiceAlgorithmConfiguration
	// ServiceKeyEscrowSink receives copies of generated keys. Multi-bind.
	ServiceKeyEscrowSink
	// ServiceKeyManagementOptions holds key lifecycle settings.
	ServiceKeyManagementOptions
)

// String returns the capability name.
func (k ServiceKind) String() string {
	switch k {
	case ServiceKeyRepository:
		return "key-repository"
	case ServiceKeyEncryptor:
		return "key-encryptor"
	case ServiceAlgorithmConfiguration:
		return "algorithm-configuration"
	case ServiceKeyEscrowSink:
		return "key-escrow-sink"
	case ServiceKeyManagementOptions:
		return "key-management-options"
	default:
		return "unknown"
	}
}

// WrapScope identifies the protection scope of a key encryptor.
type WrapScope int

const (
	// WrapScopeUser protects key material with a secret tied to the current account.
	WrapScopeUser WrapScope = iota
	// WrapScopeMachine protects key material with a machine-wide secret.
	WrapScopeMachine
)

// String returns the scope name.
func (s WrapScope) String() string {
	switch s {
	case WrapScopeUser:
		return "user"
	case WrapScopeMachine:
		return "machine"
	default:
		return "unknown"
	}
}

// KeyRepository provides durable storage for wrapped key material.
type KeyRepository interface {
	// StoreKey persists key material under the given identifier.
	StoreKey(ctx context.Context, id KeyID, data []byte) error

	// FetchKey retrieves key material by identifier.
	// Returns ErrKeyNotFound if the key does not exist.
	FetchKey(ctx context.Context, id KeyID) ([]byte, error)

	// ListKeys enumerates stored key identifiers.
	ListKeys(ctx context.Context) ([]KeyID, error)

	// Name returns identifier for logging.
	Name() string

	// Location returns a URI-like description of where keys live.
	Location() string
}

// KeyEncryptor wraps key material at rest using a platform- or
// account-scoped secret not stored alongside the key.
type KeyEncryptor interface {
	// Wrap encrypts key material.
	Wrap(plaintext []byte) ([]byte, error)

	// Unwrap decrypts previously wrapped key material.
	Unwrap(ciphertext []byte) ([]byte, error)

	// Scope reports the protection scope.
	Scope() WrapScope
}

// KeyEscrowSink receives a copy of generated key material for
// recovery or compliance purposes.
type KeyEscrowSink interface {
	// ExportKey delivers a copy of the key material to the sink.
	ExportKey(ctx context.Context, id KeyID, material []byte) error

	// Name returns identifier for logging.
	Name() string
}

// SinkResolver resolves an escrow sink type identifier to a new instance.
// Implementations are explicit registries populated by the host at startup.
type SinkResolver interface {
	// ResolveSink instantiates the sink registered under typeName.
	// Returns an error wrapping ErrConfiguration for unknown names or
	// construction failures.
	ResolveSink(typeName string) (KeyEscrowSink, error)
}

// EnvironmentProbe answers read-only questions about the deployment
// environment. Probes run at most once per process; results (including
// failures) are cached.
type EnvironmentProbe interface {
	// HostingKeyDirectory reports a writable per-application key directory
	// exposed by a managed hosting environment, if one is present.
	HostingKeyDirectory() (string, bool)

	// UserProfileKeyDirectory reports a writable key directory inside the
	// current user's profile, if one is available.
	UserProfileKeyDirectory() (string, bool)

	// MachineStoreAvailable reports whether a machine-wide administrative
	// key store is reachable.
	MachineStoreAvailable(ctx context.Context) bool
}

// WrapCapability exposes platform key-wrapping support. On platforms
// without wrapping support the composition installs an implementation
// whose Supports methods return false.
type WrapCapability interface {
	// SupportsUserScope reports whether wrapping to the current account
	// is supported at all on this platform.
	SupportsUserScope() bool

	// SupportsMachineScope reports whether machine-wide wrapping is supported.
	SupportsMachineScope() bool

	// UserEncryptor builds an encryptor scoped to the current account.
	// The call doubles as the feasibility check and may fail.
	UserEncryptor() (KeyEncryptor, error)

	// MachineEncryptor builds an encryptor scoped to the local machine.
	MachineEncryptor() (KeyEncryptor, error)
}
