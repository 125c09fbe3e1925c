// Package repository provides the key repository implementations the
// resolution engine can land on.
//
//   - FileRepository: wrapped key material as owner-only files in a
//     directory; used for the managed-hosting and user-profile tiers
//   - VaultRepository: a machine-wide administrative store backed by a
//     HashiCorp Vault KV v2 mount
//   - MemoryRepository: the ephemeral last-resort tier with no persistence
//     across process lifetime
//
// All repositories implement interfaces.KeyRepository. They store opaque,
// already-wrapped key material; wrapping is the key encryptor's concern.
package repository
