package escrow

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/keywarden/keywarden/interfaces"
)

// VaultSink escrows key copies to a HashiCorp Vault KV v2 mount, keeping
// them separate from the repository the live keys are stored in.
type VaultSink struct {
	client    *api.Client
	mountPath string
	dataPath  string
	log       *slog.Logger
}

// VaultSinkConfig configures a Vault escrow sink.
type VaultSinkConfig struct {
	Address   string
	Token     string
	MountPath string
	DataPath  string
}

// NewVaultSink creates a Vault-backed escrow sink.
func NewVaultSink(cfg VaultSinkConfig, log *slog.Logger) (*VaultSink, error) {
	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mountPath := strings.TrimSuffix(cfg.MountPath, "/")
	if mountPath == "" {
		mountPath = "secret"
	}
	dataPath := strings.Trim(cfg.DataPath, "/")
	if dataPath == "" {
		dataPath = "keywarden-escrow"
	}

	return &VaultSink{
		client:    client,
		mountPath: mountPath,
		dataPath:  dataPath,
		log:       log,
	}, nil
}

// ExportKey writes a copy of the key material to the escrow mount.
func (s *VaultSink) ExportKey(ctx context.Context, id interfaces.KeyID, material []byte) error {
	start := time.Now()
	path := fmt.Sprintf("%s/data/%s/%s", s.mountPath, s.dataPath, id)

	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"material": base64.StdEncoding.EncodeToString(material),
		},
	}

	if _, err := s.client.Logical().WriteWithContext(ctx, path, secretData); err != nil {
		s.log.Error("Failed to escrow key to Vault",
			slog.String("keyID", id.String()),
			slog.String("path", path),
			"err", err)
		return fmt.Errorf("failed to escrow key to Vault: %w", err)
	}

	s.log.Info("Escrowed key to Vault",
		slog.String("keyID", id.String()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Name returns identifier for logging.
func (s *VaultSink) Name() string {
	return fmt.Sprintf("vault-escrow-%s-%s", s.mountPath, s.dataPath)
}
