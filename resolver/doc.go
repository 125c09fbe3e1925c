// Package resolver implements the startup policy resolution engine.
//
// The Selector walks an ordered, total decision tree over environment
// probe answers to pick where keys are durably stored and how they are
// wrapped at rest:
//
//  1. managed-hosting key directory -> file repository, unwrapped
//  2. user profile directory -> file repository, account-scoped wrapping
//     when supported and feasible
//  3. machine-wide administrative store -> that store, machine-scoped
//     wrapping
//  4. ephemeral in-memory storage, with an operator warning
//
// Probe failures are never fatal; they degrade to "not available" and the
// selection falls through to the next tier. Failure to build an encryptor
// degrades that tier to unwrapped storage without abandoning the chosen
// repository.
//
// The Engine layers administrator policy, the selector's environment
// defaults, and hard-coded fallbacks into a services.Collection using
// first-registration-wins semantics, so host registrations made before
// resolution always take precedence. Resolution runs exactly once per
// engine; configuration errors abort without installing anything.
package resolver
