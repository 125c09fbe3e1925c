package policy

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/keywarden/keywarden/interfaces"
)

// SplitTypeList tokenizes a delimiter-tolerant list of type identifiers.
// The grammar: any run of semicolons and whitespace collapses to a single
// separator, and empty entries are discarded. Order is preserved and
// duplicates are kept.
func SplitTypeList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || unicode.IsSpace(r)
	})
}

// ActivateSinks resolves and instantiates every escrow sink named in the
// raw policy value, in declaration order. Any entry that fails to resolve
// aborts the whole activation; partial activation is not a supported
// outcome. An empty or all-separator value yields no sinks and no error.
func ActivateSinks(resolver interfaces.SinkResolver, raw string) ([]interfaces.KeyEscrowSink, error) {
	names := SplitTypeList(raw)
	if len(names) == 0 {
		return nil, nil
	}

	sinks := make([]interfaces.KeyEscrowSink, 0, len(names))
	for _, name := range names {
		sink, err := resolver.ResolveSink(name)
		if err != nil {
			return nil, fmt.Errorf("activating escrow sink %q: %w", name, err)
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}
