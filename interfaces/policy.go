package interfaces

import (
	"context"
	"fmt"
	"strings"
)

// PolicyValueKind discriminates the dynamic type of a policy value.
type PolicyValueKind int

const (
	// PolicyString is a plain string value.
	PolicyString PolicyValueKind = iota
	// PolicyInt is an integer value.
	PolicyInt
	// PolicyStringList is a list of strings.
	PolicyStringList
)

// String returns the kind name.
func (k PolicyValueKind) String() string {
	switch k {
	case PolicyString:
		return "string"
	case PolicyInt:
		return "integer"
	case PolicyStringList:
		return "string-list"
	default:
		return "unknown"
	}
}

// PolicyValue is a dynamically-typed value read from the policy store.
// Exactly one of the payload fields is meaningful, selected by Kind.
type PolicyValue struct {
	Kind PolicyValueKind
	Str  string
	Int  int
	List []string
}

// StringValue builds a string policy value.
func StringValue(s string) PolicyValue {
	return PolicyValue{Kind: PolicyString, Str: s}
}

// IntValue builds an integer policy value.
func IntValue(i int) PolicyValue {
	return PolicyValue{Kind: PolicyInt, Int: i}
}

// ListValue builds a string-list policy value.
func ListValue(items ...string) PolicyValue {
	return PolicyValue{Kind: PolicyStringList, List: items}
}

// PolicyValues is a flat mapping from policy key to typed value.
// Key lookup is case-insensitive; keys are stored lowercased.
type PolicyValues map[string]PolicyValue

// NewPolicyValues builds a PolicyValues map with normalized keys.
func NewPolicyValues(entries map[string]PolicyValue) PolicyValues {
	values := make(PolicyValues, len(entries))
	for k, v := range entries {
		values[strings.ToLower(k)] = v
	}
	return values
}

// Has reports whether the key is present.
func (pv PolicyValues) Has(key string) bool {
	_, ok := pv[strings.ToLower(key)]
	return ok
}

// GetString returns the string value for key. The second result reports
// presence; a present value of the wrong type is a configuration error.
func (pv PolicyValues) GetString(key string) (string, bool, error) {
	v, ok := pv[strings.ToLower(key)]
	if !ok {
		return "", false, nil
	}
	if v.Kind != PolicyString {
		return "", true, fmt.Errorf("%w: policy key %q: expected string, got %s", ErrConfiguration, key, v.Kind)
	}
	return v.Str, true, nil
}

// GetInt returns the integer value for key. The second result reports
// presence; a present value of the wrong type is a configuration error.
func (pv PolicyValues) GetInt(key string) (int, bool, error) {
	v, ok := pv[strings.ToLower(key)]
	if !ok {
		return 0, false, nil
	}
	if v.Kind != PolicyInt {
		return 0, true, fmt.Errorf("%w: policy key %q: expected integer, got %s", ErrConfiguration, key, v.Kind)
	}
	return v.Int, true, nil
}

// GetStringList returns the string-list value for key. A plain string is
// accepted and returned as a single-element list, since stores commonly
// collapse one-element lists.
func (pv PolicyValues) GetStringList(key string) ([]string, bool, error) {
	v, ok := pv[strings.ToLower(key)]
	if !ok {
		return nil, false, nil
	}
	switch v.Kind {
	case PolicyStringList:
		return v.List, true, nil
	case PolicyString:
		return []string{v.Str}, true, nil
	default:
		return nil, true, fmt.Errorf("%w: policy key %q: expected string list, got %s", ErrConfiguration, key, v.Kind)
	}
}

// PolicyStore reads administrator policy from a hierarchical key/value
// store. Load reports found=false when the policy node is absent, meaning
// no administrator policy is asserted.
type PolicyStore interface {
	Load(ctx context.Context) (values PolicyValues, found bool, err error)
}
