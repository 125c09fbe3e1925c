package escrow

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/keywarden/keywarden/interfaces"
)

// SinkFactory constructs a new escrow sink instance.
type SinkFactory func() (interfaces.KeyEscrowSink, error)

// Registry maps escrow sink type identifiers to constructor functions.
// Hosts populate it at startup; the policy activator resolves the
// KeyEscrowSinks list against it. No runtime reflection is involved.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]SinkFactory
	log       *slog.Logger
}

// NewRegistry creates an empty sink registry.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		factories: make(map[string]SinkFactory),
		log:       log,
	}
}

// Register binds a type identifier to a sink factory, overwriting any
// previous binding under the same name.
func (r *Registry) Register(typeName string, factory SinkFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeName] = factory
}

// ResolveSink instantiates the sink registered under typeName. Unknown
// names and construction failures are configuration errors.
func (r *Registry) ResolveSink(typeName string) (interfaces.KeyEscrowSink, error) {
	r.mu.RLock()
	factory, ok := r.factories[typeName]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown escrow sink type %q", interfaces.ErrConfiguration, typeName)
	}

	sink, err := factory()
	if err != nil {
		return nil, fmt.Errorf("%w: constructing escrow sink %q: %v", interfaces.ErrConfiguration, typeName, err)
	}

	r.log.Debug("Activated escrow sink", slog.String("type", typeName))
	return sink, nil
}
