package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/atomic"

	"github.com/keywarden/keywarden/interfaces"
	"github.com/keywarden/keywarden/policy"
	"github.com/keywarden/keywarden/services"
)

// Engine is the root composition. It resolves the full startup
// configuration and publishes it to a service collection in three layers,
// later layers only filling gaps left by earlier ones:
//
//  1. administrator policy store (algorithm configuration, escrow sinks,
//     key lifetime)
//  2. environment-inferred defaults (storage decision tree)
//  3. hard-coded fallback defaults
//
// Anything the host registered in the collection before Resolve runs is
// never overwritten.
type Engine struct {
	store    interfaces.PolicyStore
	sinks    interfaces.SinkResolver
	selector *Selector
	log      *slog.Logger

	strictEphemeral bool
	resolved        atomic.Bool
}

// NewEngine creates a resolution engine.
func NewEngine(store interfaces.PolicyStore, sinks interfaces.SinkResolver, selector *Selector, log *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		sinks:    sinks,
		selector: selector,
		log:      log,
	}
}

// WithStrictEphemeral makes resolution fail with ErrDegradedStorage
// instead of warning when no durable storage location is discoverable.
func (e *Engine) WithStrictEphemeral() *Engine {
	e.strictEphemeral = true
	return e
}

// Resolve runs the full startup resolution once and publishes the outcome
// into col. Configuration errors abort with no partial configuration
// installed. The returned resolution carries the selected storage tier and
// any operator warnings.
func (e *Engine) Resolve(ctx context.Context, col *services.Collection) (*Resolution, error) {
	if !e.resolved.CompareAndSwap(false, true) {
		return nil, errors.New("startup resolution already ran")
	}

	// All fallible work happens before anything is registered, so a
	// configuration error leaves the collection untouched.
	adminPolicy, err := e.loadPolicy(ctx)
	if err != nil {
		return nil, err
	}

	res := e.selector.Resolve(ctx)
	if e.strictEphemeral && res.Tier == TierEphemeral {
		return nil, interfaces.ErrDegradedStorage
	}
	for _, w := range res.Warnings {
		e.log.Warn(w)
	}

	// Layer 1: administrator policy.
	if adminPolicy.algorithm != nil {
		col.TryRegister(interfaces.ServiceAlgorithmConfiguration, adminPolicy.algorithm)
	}
	for _, sink := range adminPolicy.escrowSinks {
		col.AddEscrowSink(sink)
	}
	if adminPolicy.options != nil {
		col.TryRegister(interfaces.ServiceKeyManagementOptions, adminPolicy.options)
	}

	// Layer 2: environment-inferred defaults.
	col.TryRegister(interfaces.ServiceKeyRepository, res.Repository)
	if res.Encryptor != nil {
		col.TryRegister(interfaces.ServiceKeyEncryptor, res.Encryptor)
	}

	// Layer 3: hard-coded fallbacks.
	col.TryRegister(interfaces.ServiceAlgorithmConfiguration, policy.DefaultAlgorithmConfiguration())
	col.TryRegister(interfaces.ServiceKeyManagementOptions, policy.DefaultKeyManagementOptions())

	e.log.Info("Startup resolution complete",
		slog.String("tier", res.Tier.String()),
		slog.String("repository", res.Repository.Name()),
		slog.Bool("wrapped", res.Encryptor != nil),
		slog.Int("escrowSinks", len(adminPolicy.escrowSinks)))

	return res, nil
}

// adminPolicy holds everything administrator policy asserted. Nil fields
// mean the corresponding capability was not asserted.
type adminPolicy struct {
	algorithm   policy.AlgorithmConfiguration
	escrowSinks []interfaces.KeyEscrowSink
	options     *policy.KeyManagementOptions
}

func (e *Engine) loadPolicy(ctx context.Context) (*adminPolicy, error) {
	values, found, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading policy store: %w", err)
	}
	if !found {
		e.log.Debug("No administrator policy asserted")
		return &adminPolicy{}, nil
	}

	out := &adminPolicy{}

	out.algorithm, err = policy.ParseAlgorithm(values)
	if err != nil {
		return nil, err
	}

	if entries, ok, err := values.GetStringList(policy.KeyKeyEscrowSinks); err != nil {
		return nil, err
	} else if ok {
		// Each entry may itself carry the delimiter-tolerant grammar.
		out.escrowSinks, err = policy.ActivateSinks(e.sinks, strings.Join(entries, ";"))
		if err != nil {
			return nil, err
		}
	}

	opts, ok, err := policy.OptionsFromPolicy(values)
	if err != nil {
		return nil, err
	}
	if ok {
		out.options = opts
	}

	return out, nil
}
