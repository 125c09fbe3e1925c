// Package probe answers the environment questions the default service
// selector bases its storage decision on: is a managed-hosting key
// directory exposed, is a writable per-user profile available, is the
// machine-wide administrative key store reachable.
//
// Probes are pure queries with no side effects beyond read-only checks and
// creating the key directory they report. Every probe is guarded by a
// compute-at-most-once cell: concurrent first access runs the underlying
// check exactly once and all callers observe the same result. A failed
// probe is cached as permanently unavailable for the process lifetime;
// since resolution runs once at startup, a retry would only mask an
// environment that changed under the process.
package probe
