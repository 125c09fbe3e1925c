// Package common holds shared process-level helpers: structured logger
// setup and the build version.
package common
