// Package policy parses administrator key-management policy into typed
// configuration objects.
//
// Policy is a flat, case-insensitive key/value mapping read from a
// hierarchical store (see interfaces.PolicyStore). Three things come out
// of it:
//
//   - an authenticated-encryption configuration, selected by the
//     case-sensitive EncryptionType discriminator ("cng-cbc", "cng-gcm" or
//     "managed") and filled with compiled-in defaults for any field the
//     policy leaves unset
//   - an ordered list of key escrow sinks, activated from a
//     delimiter-tolerant list of type identifiers through an explicit
//     name-to-constructor registry
//   - key management options such as the new-key lifetime
//
// Absence of the EncryptionType key means no encryption policy is
// asserted; ParseAlgorithm returns nil and the caller-level default
// applies. Any malformed value is a fatal configuration error wrapping
// interfaces.ErrConfiguration: the engine installs no partial
// configuration.
//
// # Stores
//
// Two PolicyStore implementations ship with the package: YAMLFileStore
// reads the keyManagement node of a YAML file, and StaticStore serves
// values injected by the host.
package policy
