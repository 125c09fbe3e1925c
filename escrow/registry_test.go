package escrow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keywarden/keywarden/interfaces"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistry_ResolveSink(t *testing.T) {
	reg := NewRegistry(discardLogger())
	reg.Register("test.FileSink", func() (interfaces.KeyEscrowSink, error) {
		return NewFileSink(t.TempDir(), discardLogger())
	})

	sink, err := reg.ResolveSink("test.FileSink")
	require.NoError(t, err)
	assert.NotNil(t, sink)
}

func TestRegistry_UnknownType(t *testing.T) {
	reg := NewRegistry(discardLogger())

	_, err := reg.ResolveSink("nonexistent.Sink")
	assert.ErrorIs(t, err, interfaces.ErrConfiguration)
}

func TestRegistry_ConstructionFailure(t *testing.T) {
	reg := NewRegistry(discardLogger())
	reg.Register("failing.Sink", func() (interfaces.KeyEscrowSink, error) {
		return nil, errors.New("bucket unreachable")
	})

	_, err := reg.ResolveSink("failing.Sink")
	assert.ErrorIs(t, err, interfaces.ErrConfiguration)
	assert.Contains(t, err.Error(), "bucket unreachable")
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	reg := NewRegistry(discardLogger())
	dir := t.TempDir()

	reg.Register("sink", func() (interfaces.KeyEscrowSink, error) {
		return nil, errors.New("first binding")
	})
	reg.Register("sink", func() (interfaces.KeyEscrowSink, error) {
		return NewFileSink(dir, discardLogger())
	})

	sink, err := reg.ResolveSink("sink")
	require.NoError(t, err)
	assert.NotNil(t, sink)
}

func TestFileSink_ExportKey(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, discardLogger())
	require.NoError(t, err)

	id := interfaces.NewKeyID()
	material := []byte("escrowed key material")
	require.NoError(t, sink.ExportKey(context.Background(), id, material))

	got, err := os.ReadFile(filepath.Join(dir, id.String()+".escrow"))
	require.NoError(t, err)
	assert.Equal(t, material, got)
}

func TestFileSink_EmptyDir(t *testing.T) {
	_, err := NewFileSink("", discardLogger())
	assert.Error(t, err)
}
