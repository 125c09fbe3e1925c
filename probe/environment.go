package probe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DefaultHostingDirEnv is the environment variable through which a managed
// hosting environment exposes its per-application key directory.
const DefaultHostingDirEnv = "KEYWARDEN_HOSTING_KEYS"

// Config customizes the environment probes. Zero values select the real
// process environment; tests inject their own functions.
type Config struct {
	// HostingDirEnv overrides the hosting key directory variable name.
	HostingDirEnv string

	// Getenv overrides environment variable lookup.
	Getenv func(string) string

	// UserHomeDir overrides user profile directory discovery.
	UserHomeDir func() (string, error)

	// MachineProbe answers whether the machine-wide administrative key
	// store is reachable. Nil means no machine store is configured.
	MachineProbe func(ctx context.Context) bool
}

// Environment answers read-only questions about the deployment
// environment. Each probe runs at most once per process; the answer,
// including a failed probe, is cached for the process lifetime. Probes are
// safe for concurrent first access.
type Environment struct {
	cfg Config
	log *slog.Logger

	hostingOnce sync.Once
	hostingDir  string
	hostingOK   bool

	profileOnce sync.Once
	profileDir  string
	profileOK   bool

	machineOnce sync.Once
	machineOK   bool
}

// NewEnvironment creates an environment prober.
func NewEnvironment(cfg Config, log *slog.Logger) *Environment {
	if cfg.HostingDirEnv == "" {
		cfg.HostingDirEnv = DefaultHostingDirEnv
	}
	if cfg.Getenv == nil {
		cfg.Getenv = os.Getenv
	}
	if cfg.UserHomeDir == nil {
		cfg.UserHomeDir = os.UserHomeDir
	}
	return &Environment{cfg: cfg, log: log}
}

// HostingKeyDirectory reports the per-application key directory exposed by
// a managed hosting environment. Available when the hosting variable is
// set and the directory is usable.
func (e *Environment) HostingKeyDirectory() (string, bool) {
	e.hostingOnce.Do(func() {
		dir := e.cfg.Getenv(e.cfg.HostingDirEnv)
		if dir == "" {
			return
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			e.log.Debug("Hosting key directory not usable",
				slog.String("dir", dir),
				"err", err)
			return
		}
		e.hostingDir = dir
		e.hostingOK = true
	})
	return e.hostingDir, e.hostingOK
}

// UserProfileKeyDirectory reports a writable key directory inside the
// current user's profile.
func (e *Environment) UserProfileKeyDirectory() (string, bool) {
	e.profileOnce.Do(func() {
		home, err := e.cfg.UserHomeDir()
		if err != nil {
			e.log.Debug("No user profile directory", "err", err)
			return
		}
		dir := filepath.Join(home, ".keywarden", "keys")
		if err := os.MkdirAll(dir, 0700); err != nil {
			e.log.Debug("User profile key directory not writable",
				slog.String("dir", dir),
				"err", err)
			return
		}
		e.profileDir = dir
		e.profileOK = true
	})
	return e.profileDir, e.profileOK
}

// MachineStoreAvailable reports whether the machine-wide administrative
// key store is reachable. The underlying check runs once; its outcome is
// cached even when the store was unreachable.
func (e *Environment) MachineStoreAvailable(ctx context.Context) bool {
	e.machineOnce.Do(func() {
		if e.cfg.MachineProbe == nil {
			return
		}
		e.machineOK = e.cfg.MachineProbe(ctx)
		if !e.machineOK {
			e.log.Debug("Machine-wide key store not reachable")
		}
	})
	return e.machineOK
}
