package services

import (
	"log/slog"
	"sync"

	"github.com/keywarden/keywarden/interfaces"
	"github.com/keywarden/keywarden/policy"
)

// Descriptor pairs a capability kind with its resolved value.
type Descriptor struct {
	Kind  interfaces.ServiceKind
	Value interface{}
}

// Collection is the registration sink resolved services are published to.
// Every kind is singleton with first-registration-wins semantics, except
// escrow sinks which are multi-bind and order-preserving. A host that
// registers its own value before the engine runs therefore always takes
// precedence over the engine's inferred defaults.
type Collection struct {
	mu         sync.RWMutex
	singletons map[interfaces.ServiceKind]interface{}
	sinks      []interfaces.KeyEscrowSink
	log        *slog.Logger
}

// NewCollection creates an empty service collection.
func NewCollection(log *slog.Logger) *Collection {
	return &Collection{
		singletons: make(map[interfaces.ServiceKind]interface{}),
		log:        log,
	}
}

// TryRegister registers value under kind if and only if no prior
// registration exists. It reports whether the value was registered.
// Escrow sinks must be added through AddEscrowSink instead.
func (c *Collection) TryRegister(kind interfaces.ServiceKind, value interface{}) bool {
	if kind == interfaces.ServiceKeyEscrowSink {
		c.AddEscrowSink(value.(interfaces.KeyEscrowSink))
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.singletons[kind]; exists {
		c.log.Debug("Capability already registered, keeping existing value",
			slog.String("kind", kind.String()))
		return false
	}
	c.singletons[kind] = value
	return true
}

// TryAdd registers a descriptor with TryRegister semantics.
func (c *Collection) TryAdd(desc Descriptor) bool {
	return c.TryRegister(desc.Kind, desc.Value)
}

// AddEscrowSink appends an escrow sink. Sinks are multi-bind; registration
// order is preserved.
func (c *Collection) AddEscrowSink(sink interfaces.KeyEscrowSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks = append(c.sinks, sink)
}

// Get returns the singleton registered under kind.
func (c *Collection) Get(kind interfaces.ServiceKind) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.singletons[kind]
	return v, ok
}

// KeyRepository returns the resolved key repository, if any.
func (c *Collection) KeyRepository() (interfaces.KeyRepository, bool) {
	v, ok := c.Get(interfaces.ServiceKeyRepository)
	if !ok {
		return nil, false
	}
	return v.(interfaces.KeyRepository), true
}

// KeyEncryptor returns the resolved key encryptor, if any. Keys are stored
// unwrapped when no encryptor is registered.
func (c *Collection) KeyEncryptor() (interfaces.KeyEncryptor, bool) {
	v, ok := c.Get(interfaces.ServiceKeyEncryptor)
	if !ok {
		return nil, false
	}
	return v.(interfaces.KeyEncryptor), true
}

// AlgorithmConfiguration returns the resolved payload-encryption
// configuration, if any.
func (c *Collection) AlgorithmConfiguration() (policy.AlgorithmConfiguration, bool) {
	v, ok := c.Get(interfaces.ServiceAlgorithmConfiguration)
	if !ok {
		return nil, false
	}
	return v.(policy.AlgorithmConfiguration), true
}

// KeyManagementOptions returns the resolved key lifecycle options, if any.
func (c *Collection) KeyManagementOptions() (*policy.KeyManagementOptions, bool) {
	v, ok := c.Get(interfaces.ServiceKeyManagementOptions)
	if !ok {
		return nil, false
	}
	return v.(*policy.KeyManagementOptions), true
}

// EscrowSinks returns the registered escrow sinks in registration order.
func (c *Collection) EscrowSinks() []interfaces.KeyEscrowSink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]interfaces.KeyEscrowSink, len(c.sinks))
	copy(out, c.sinks)
	return out
}
