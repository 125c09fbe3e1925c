// Command keywarden runs the startup policy resolution against the real
// host environment and reports the outcome: selected key repository and
// tier, wrapping scope, payload encryption configuration, key lifetime and
// active escrow sinks. Useful as an operator dry-run before wiring the
// engine into an application.
package main
