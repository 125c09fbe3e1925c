// Package escrow provides key escrow sinks and the explicit registry the
// policy activator resolves sink type identifiers against.
//
// An escrow sink receives a copy of every generated key for recovery or
// compliance purposes. Administrator policy names sinks by type identifier
// in the KeyEscrowSinks list; the Registry maps those identifiers to
// constructor functions the host registered at startup, preserving the
// engine's extensibility without runtime reflection.
//
// Shipped sinks: FileSink (directory of key copies), S3Sink (S3 or
// S3-compatible bucket) and VaultSink (dedicated Vault KV v2 mount).
package escrow
