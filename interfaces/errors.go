package interfaces

import "errors"

var (
	// ErrConfiguration is returned for fatal policy configuration problems:
	// an unrecognized EncryptionType token, an unknown escrow sink type, a
	// sink that fails to construct, or a policy value of the wrong type.
	// Resolution aborts; no partial configuration is installed.
	ErrConfiguration = errors.New("invalid key management configuration")

	// ErrKeyNotFound is returned when a repository does not hold the
	// requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable is returned when a key repository or policy store
	// backend is not reachable.
	ErrStoreUnavailable = errors.New("key store unavailable")

	// ErrWrapUnsupported is returned by wrap capabilities on platforms
	// without key-wrapping support.
	ErrWrapUnsupported = errors.New("platform key wrapping not supported")

	// ErrDegradedStorage is returned by the resolution engine in strict mode
	// when no durable key storage location could be discovered and keys
	// would only live in process memory.
	ErrDegradedStorage = errors.New("no durable key storage available")
)
