package policy

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keywarden/keywarden/interfaces"
)

func TestSplitTypeList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "single separator",
			raw:      "TypeA;TypeB",
			expected: []string{"TypeA", "TypeB"},
		},
		{
			name:     "mixed separator runs",
			raw:      "TypeA ;; TypeB; TypeC",
			expected: []string{"TypeA", "TypeB", "TypeC"},
		},
		{
			name:     "leading and trailing noise",
			raw:      " ;;  TypeA ; ",
			expected: []string{"TypeA"},
		},
		{
			name:     "whitespace only separator",
			raw:      "TypeA  TypeB",
			expected: []string{"TypeA", "TypeB"},
		},
		{
			name:     "duplicates preserved",
			raw:      "TypeA;TypeA;TypeA",
			expected: []string{"TypeA", "TypeA", "TypeA"},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
		{
			name:     "separators only",
			raw:      " ;;; ;",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitTypeList(tt.raw)
			if tt.expected == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

// fakeSink records its type name so activation order can be asserted.
type fakeSink struct {
	typeName string
}

func (s *fakeSink) ExportKey(ctx context.Context, id interfaces.KeyID, material []byte) error {
	return nil
}

func (s *fakeSink) Name() string { return s.typeName }

// fakeResolver resolves a fixed set of type names.
type fakeResolver struct {
	known map[string]bool
}

func (r *fakeResolver) ResolveSink(typeName string) (interfaces.KeyEscrowSink, error) {
	if !r.known[typeName] {
		return nil, fmt.Errorf("%w: unknown escrow sink type %q", interfaces.ErrConfiguration, typeName)
	}
	return &fakeSink{typeName: typeName}, nil
}

func TestActivateSinks_OrderPreserved(t *testing.T) {
	resolver := &fakeResolver{known: map[string]bool{"TypeA": true, "TypeB": true, "TypeC": true}}

	sinks, err := ActivateSinks(resolver, "TypeA ;; TypeB; TypeC")
	require.NoError(t, err)
	require.Len(t, sinks, 3)
	assert.Equal(t, "TypeA", sinks[0].Name())
	assert.Equal(t, "TypeB", sinks[1].Name())
	assert.Equal(t, "TypeC", sinks[2].Name())
}

func TestActivateSinks_DuplicatesPreserved(t *testing.T) {
	resolver := &fakeResolver{known: map[string]bool{"TypeA": true}}

	sinks, err := ActivateSinks(resolver, "TypeA;TypeA")
	require.NoError(t, err)
	require.Len(t, sinks, 2)
	assert.NotSame(t, sinks[0], sinks[1], "each entry must be a distinct instance")
}

func TestActivateSinks_FailureAbortsWholeActivation(t *testing.T) {
	resolver := &fakeResolver{known: map[string]bool{"TypeA": true, "TypeC": true}}

	sinks, err := ActivateSinks(resolver, "TypeA;TypeB;TypeC")
	assert.Nil(t, sinks, "partial activation is not a supported outcome")
	assert.ErrorIs(t, err, interfaces.ErrConfiguration)
	assert.ErrorContains(t, err, "TypeB")
}

func TestActivateSinks_EmptyValue(t *testing.T) {
	resolver := &fakeResolver{known: nil}

	sinks, err := ActivateSinks(resolver, " ;; ")
	require.NoError(t, err)
	assert.Empty(t, sinks)
}
