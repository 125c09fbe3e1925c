package policy

import (
	"context"

	"github.com/keywarden/keywarden/interfaces"
)

// StaticStore is an in-memory policy store, useful for hosts that source
// policy from their own configuration system and in tests.
type StaticStore struct {
	values interfaces.PolicyValues
}

// NewStaticStore builds a store asserting the given entries. Keys are
// normalized for case-insensitive lookup.
func NewStaticStore(entries map[string]interfaces.PolicyValue) *StaticStore {
	return &StaticStore{values: interfaces.NewPolicyValues(entries)}
}

// EmptyStore returns a store asserting no administrator policy.
func EmptyStore() *StaticStore {
	return &StaticStore{}
}

// Load returns the configured values. A store built with no entries
// reports the policy node as absent.
func (s *StaticStore) Load(ctx context.Context) (interfaces.PolicyValues, bool, error) {
	if s.values == nil {
		return nil, false, nil
	}
	return s.values, true, nil
}
