// Package wrap implements key-at-rest wrapping.
//
// Encryptors protect key material with a secret that is never stored
// alongside the keys: an owner-only keyfile scoped either to the current
// user account or to the machine. The cipher is XChaCha20-Poly1305, so
// wrapped material is authenticated as well as encrypted.
//
// Platform support is a composition-time decision, not a build-time one:
// hosts install either Platform (keyfile-backed wrapping) or Unsupported
// (every probe answers false) as the interfaces.WrapCapability, and the
// resolution engine degrades gracefully when wrapping is absent.
package wrap
