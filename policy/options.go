package policy

import (
	"fmt"
	"time"

	"github.com/keywarden/keywarden/interfaces"
)

// DefaultNewKeyLifetime is the lifetime of newly generated keys when no
// policy overrides it.
const DefaultNewKeyLifetime = 90 * 24 * time.Hour

// KeyManagementOptions holds key lifecycle settings. Mutable while the
// composition runs, read-only afterwards.
type KeyManagementOptions struct {
	NewKeyLifetime time.Duration
}

// DefaultKeyManagementOptions returns options with compiled-in defaults.
func DefaultKeyManagementOptions() *KeyManagementOptions {
	return &KeyManagementOptions{NewKeyLifetime: DefaultNewKeyLifetime}
}

// OptionsFromPolicy builds key management options from administrator
// policy. The second result reports whether policy asserted anything; when
// false the caller-level default applies. The DefaultKeyLifetime policy key
// is an integer day count and must be positive.
func OptionsFromPolicy(values interfaces.PolicyValues) (*KeyManagementOptions, bool, error) {
	days, ok, err := values.GetInt(KeyDefaultKeyLifetime)
	if err != nil {
		return nil, true, err
	}
	if !ok {
		return nil, false, nil
	}
	if days <= 0 {
		return nil, true, fmt.Errorf("%w: DefaultKeyLifetime must be a positive day count, got %d", interfaces.ErrConfiguration, days)
	}

	return &KeyManagementOptions{NewKeyLifetime: time.Duration(days) * 24 * time.Hour}, true, nil
}
