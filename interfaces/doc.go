// Package interfaces defines the capability interfaces and shared types of
// the keywarden startup resolution engine.
//
// The engine consumes four collaborators, all expressed here as interfaces:
//
//   - EnvironmentProbe: read-only deployment environment checks
//   - PolicyStore: administrator policy read from a hierarchical store
//   - SinkResolver: explicit type-name registry for escrow sinks
//   - WrapCapability: platform key-wrapping support, decided at composition
//     time rather than compile time
//
// It produces implementations of three capabilities, published through a
// registration sink with first-registration-wins semantics:
//
//   - KeyRepository: durable storage for wrapped key material
//   - KeyEncryptor: at-rest wrapping of key material
//   - KeyEscrowSink: recipients of key copies for recovery/compliance
//
// # Errors
//
// Fatal configuration problems wrap ErrConfiguration. Probe failures are
// never fatal; they degrade to "not available" and the resolution falls
// through to the next tier. ErrDegradedStorage is only returned when the
// engine runs in strict mode and resolution lands on ephemeral storage.
package interfaces
