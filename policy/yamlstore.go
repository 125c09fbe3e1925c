package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/keywarden/keywarden/interfaces"
)

// DefaultPolicyNode is the top-level document node holding administrator
// policy in a YAML store.
const DefaultPolicyNode = "keyManagement"

// YAMLFileStore reads administrator policy from a YAML file. A missing
// file or a file without the policy node means no policy is asserted.
type YAMLFileStore struct {
	path string
	node string
	log  *slog.Logger
}

// NewYAMLFileStore creates a policy store backed by the YAML file at path,
// reading keys from the DefaultPolicyNode node.
func NewYAMLFileStore(path string, log *slog.Logger) *YAMLFileStore {
	return &YAMLFileStore{path: path, node: DefaultPolicyNode, log: log}
}

// WithNode overrides the top-level node the store reads from.
func (s *YAMLFileStore) WithNode(node string) *YAMLFileStore {
	s.node = node
	return s
}

// Load reads and types the policy values. Scalar values become strings or
// integers; sequences must contain only strings. Any other value shape is
// a configuration error.
func (s *YAMLFileStore) Load(ctx context.Context) (interfaces.PolicyValues, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.log.Debug("Policy file not present, no administrator policy asserted",
			slog.String("path", s.path))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading policy file %s: %v", interfaces.ErrStoreUnavailable, s.path, err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("%w: malformed policy file %s: %v", interfaces.ErrConfiguration, s.path, err)
	}

	raw, ok := doc[s.node]
	if !ok {
		s.log.Debug("Policy node absent, no administrator policy asserted",
			slog.String("path", s.path),
			slog.String("node", s.node))
		return nil, false, nil
	}

	entries, ok := raw.(map[interface{}]interface{})
	if !ok {
		return nil, false, fmt.Errorf("%w: policy node %q must be a mapping", interfaces.ErrConfiguration, s.node)
	}

	values := make(interfaces.PolicyValues, len(entries))
	for k, v := range entries {
		key, ok := k.(string)
		if !ok {
			return nil, false, fmt.Errorf("%w: non-string policy key %v", interfaces.ErrConfiguration, k)
		}
		value, err := coerceYAMLValue(key, v)
		if err != nil {
			return nil, false, err
		}
		values[strings.ToLower(key)] = value
	}

	s.log.Debug("Loaded administrator policy",
		slog.String("path", s.path),
		slog.Int("keys", len(values)))

	return values, true, nil
}

func coerceYAMLValue(key string, v interface{}) (interfaces.PolicyValue, error) {
	switch val := v.(type) {
	case string:
		return interfaces.StringValue(val), nil
	case int:
		return interfaces.IntValue(val), nil
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return interfaces.PolicyValue{}, fmt.Errorf("%w: policy key %q: list items must be strings, got %T", interfaces.ErrConfiguration, key, item)
			}
			items = append(items, s)
		}
		return interfaces.ListValue(items...), nil
	default:
		return interfaces.PolicyValue{}, fmt.Errorf("%w: policy key %q: unsupported value type %T", interfaces.ErrConfiguration, key, v)
	}
}
