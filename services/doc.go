// Package services implements the registration sink that resolved
// configuration objects are published to.
//
// The Collection applies "weak" registration semantics: a capability is
// registered if and only if no prior registration of the same kind exists.
// This is the core extensibility contract of the resolution engine — an
// explicit registration made by the host before resolution runs always
// wins over administrator policy, which in turn wins over the engine's
// environment-inferred defaults. Key escrow sinks are the one multi-bind
// kind: every registration is kept, in order.
package services
