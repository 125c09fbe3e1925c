package resolver

import (
	"context"
	"log/slog"

	"github.com/keywarden/keywarden/interfaces"
	"github.com/keywarden/keywarden/repository"
)

// Tier identifies which branch of the storage decision tree fired.
type Tier int

const (
	// TierHosting is a managed-hosting key directory.
	TierHosting Tier = iota
	// TierUserProfile is a key directory inside the user profile.
	TierUserProfile
	// TierMachineStore is the machine-wide administrative key store.
	TierMachineStore
	// TierEphemeral is the in-memory last resort.
	TierEphemeral
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierHosting:
		return "hosting"
	case TierUserProfile:
		return "user-profile"
	case TierMachineStore:
		return "machine-store"
	case TierEphemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of the storage decision tree.
type Resolution struct {
	// Repository is the selected key repository. Never nil.
	Repository interfaces.KeyRepository

	// Encryptor wraps keys at rest. Nil means keys are stored unwrapped.
	Encryptor interfaces.KeyEncryptor

	// Tier records which branch fired.
	Tier Tier

	// Warnings are operator-facing, non-fatal conditions. Landing on the
	// ephemeral tier always produces one.
	Warnings []string
}

// MachineStoreFactory opens the machine-wide administrative key store.
type MachineStoreFactory func() (interfaces.KeyRepository, error)

// Selector turns environment probe answers into a (repository, encryptor)
// pair through an ordered four-tier fallback. The fallback is total: one
// branch always matches, deterministically for the same probe results.
type Selector struct {
	probe   interfaces.EnvironmentProbe
	wrap    interfaces.WrapCapability
	machine MachineStoreFactory
	log     *slog.Logger
}

// NewSelector creates a selector. The machine factory may be nil when no
// machine-wide store is configured; that tier then never matches.
func NewSelector(probe interfaces.EnvironmentProbe, wrapCap interfaces.WrapCapability, machine MachineStoreFactory, log *slog.Logger) *Selector {
	return &Selector{
		probe:   probe,
		wrap:    wrapCap,
		machine: machine,
		log:     log,
	}
}

// Resolve evaluates the decision tree. Failure to build an encryptor never
// aborts repository resolution: the tier degrades to storing keys
// unwrapped, with a logged note.
func (s *Selector) Resolve(ctx context.Context) *Resolution {
	if res := s.tryHosting(); res != nil {
		return res
	}
	if res := s.tryUserProfile(); res != nil {
		return res
	}
	if res := s.tryMachineStore(ctx); res != nil {
		return res
	}
	return s.ephemeral()
}

// tryHosting handles the managed-hosting tier. Keys at a hosting-provided
// path are stored unwrapped; the hosting sandbox is the protection
// boundary. That is informational, not an error.
func (s *Selector) tryHosting() *Resolution {
	dir, ok := s.probe.HostingKeyDirectory()
	if !ok {
		return nil
	}

	repo, err := repository.NewFileRepository(dir, s.log)
	if err != nil {
		s.log.Debug("Hosting key directory unusable, falling through",
			slog.String("dir", dir),
			"err", err)
		return nil
	}

	s.log.Info("Using managed-hosting key directory; keys are stored unwrapped",
		slog.String("dir", dir))
	return &Resolution{Repository: repo, Tier: TierHosting}
}

func (s *Selector) tryUserProfile() *Resolution {
	dir, ok := s.probe.UserProfileKeyDirectory()
	if !ok {
		return nil
	}

	repo, err := repository.NewFileRepository(dir, s.log)
	if err != nil {
		s.log.Debug("User profile key directory unusable, falling through",
			slog.String("dir", dir),
			"err", err)
		return nil
	}

	res := &Resolution{Repository: repo, Tier: TierUserProfile}

	switch {
	case s.wrap.SupportsUserScope():
		enc, err := s.wrap.UserEncryptor()
		if err != nil {
			s.log.Info("Account-scoped key wrapping not feasible; keys are stored unwrapped",
				"err", err)
			break
		}
		res.Encryptor = enc
	case s.wrap.SupportsMachineScope():
		s.log.Info("Platform supports key wrapping but not to the current account; keys are stored unwrapped")
	}

	return res
}

func (s *Selector) tryMachineStore(ctx context.Context) *Resolution {
	if s.machine == nil || !s.probe.MachineStoreAvailable(ctx) {
		return nil
	}

	repo, err := s.machine()
	if err != nil {
		s.log.Debug("Machine-wide key store unusable, falling through", "err", err)
		return nil
	}

	res := &Resolution{Repository: repo, Tier: TierMachineStore}

	// A wrapping failure only degrades to unwrapped storage.
	if s.wrap.SupportsMachineScope() {
		enc, err := s.wrap.MachineEncryptor()
		if err != nil {
			s.log.Info("Machine-scoped key wrapping not feasible; keys are stored unwrapped",
				"err", err)
		} else {
			res.Encryptor = enc
		}
	}

	s.log.Info("Using machine-wide administrative key store",
		slog.String("location", repo.Location()))
	return res
}

func (s *Selector) ephemeral() *Resolution {
	const warning = "no durable key storage location could be discovered; " +
		"keys will be held in memory only and protected data will be unrecoverable after the process exits"

	s.log.Warn("Falling back to ephemeral in-memory key storage")
	return &Resolution{
		Repository: repository.NewMemoryRepository(s.log),
		Tier:       TierEphemeral,
		Warnings:   []string{warning},
	}
}
