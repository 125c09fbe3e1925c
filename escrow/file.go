package escrow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/keywarden/keywarden/interfaces"
)

// FileSink escrows key copies to a directory, typically a mount reserved
// for the recovery officer.
type FileSink struct {
	dir string
	log *slog.Logger
}

// NewFileSink creates a file escrow sink rooted at dir, creating the
// directory if needed.
func NewFileSink(dir string, log *slog.Logger) (*FileSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty escrow directory path")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create escrow directory: %w", err)
	}
	return &FileSink{dir: dir, log: log}, nil
}

// ExportKey writes a copy of the key material to the escrow directory.
func (s *FileSink) ExportKey(ctx context.Context, id interfaces.KeyID, material []byte) error {
	path := filepath.Join(s.dir, id.String()+".escrow")
	if err := os.WriteFile(path, material, 0600); err != nil {
		return fmt.Errorf("failed to write escrowed key: %w", err)
	}

	s.log.Info("Escrowed key to file",
		slog.String("keyID", id.String()),
		slog.String("path", path))
	return nil
}

// Name returns identifier for logging.
func (s *FileSink) Name() string {
	return fmt.Sprintf("file-escrow-%s", filepath.Base(s.dir))
}
