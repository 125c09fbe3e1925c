package repository

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

// VaultRepository stores wrapped key material in HashiCorp Vault. It backs
// the machine-wide administrative store tier: a single Vault mount shared
// by every process on the host, reachable regardless of user profiles.
type VaultRepository struct {
	client    *api.Client
	mountPath string
	dataPath  string
	log       *slog.Logger
	location  string
}

// VaultConfig configures a Vault-backed repository.
type VaultConfig struct {
	// Address is the Vault server address, e.g. https://vault.example.com:8200.
	Address string
	// Token authenticates the client. Empty means the environment token.
	Token string
	// MountPath is the KV v2 mount, e.g. "secret".
	MountPath string
	// DataPath is the path within the mount, e.g. "keywarden".
	DataPath string
}

// NewVaultRepository creates a Vault KV v2 backed key repository.
func NewVaultRepository(cfg VaultConfig, log *slog.Logger) (*VaultRepository, error) {
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
		dataPath = "keywarden"
	}

	return &VaultRepository{
		client:    client,
		mountPath: mountPath,
		dataPath:  dataPath,
		log:       log,
		location:  fmt.Sprintf("vault://%s/%s/%s", apiCfg.Address, mountPath, dataPath),
	}, nil
}

// StoreKey writes key material to the KV v2 store.
func (r *VaultRepository) StoreKey(ctx context.Context, id interfaces.KeyID, data []byte) error {
	start := time.Now()
	path := r.keyPath(id)

	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"material": base64.StdEncoding.EncodeToString(data),
		},
	}

	if _, err := r.client.Logical().WriteWithContext(ctx, path, secretData); err != nil {
		r.log.Error("Failed to write key to Vault",
			slog.String("path", path),
			slog.String("keyID", id.String()),
			"err", err)
		return fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}

	r.log.Debug("Stored key in Vault",
		slog.String("keyID", id.String()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// FetchKey retrieves key material by identifier.
func (r *VaultRepository) FetchKey(ctx context.Context, id interfaces.KeyID) ([]byte, error) {
	path := r.keyPath(id)

	secret, err := r.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrKeyNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid data format in Vault response")
	}
	encoded, ok := data["material"].(string)
	if !ok {
		return nil, fmt.Errorf("material key not found in Vault data")
	}

	material, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("malformed key material in Vault data: %w", err)
	}
	return material, nil
}

// ListKeys enumerates the identifiers of all stored keys using the KV v2
// metadata endpoint.
func (r *VaultRepository) ListKeys(ctx context.Context) ([]interfaces.KeyID, error) {
	path := fmt.Sprintf("%s/metadata/%s/keys", r.mountPath, r.dataPath)

	secret, err := r.client.Logical().ListWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrStoreUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	raw, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return nil, nil
	}

	ids := make([]interfaces.KeyID, 0, len(raw))
	for _, item := range raw {
		if name, ok := item.(string); ok {
			ids = append(ids, interfaces.KeyID(name))
		}
	}
	return ids, nil
}

// Available checks whether Vault is reachable, initialized and unsealed.
// The environment prober uses this as the machine-store availability check.
func (r *VaultRepository) Available(ctx context.Context) bool {
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := r.client.Sys().HealthWithContext(healthCtx)
	if err != nil {
		r.log.Debug("Vault health check failed", "err", err)
		return false
	}
	if !health.Initialized || health.Sealed {
		r.log.Debug("Vault is not available",
			slog.Bool("initialized", health.Initialized),
			slog.Bool("sealed", health.Sealed))
		return false
	}
	return true
}

// Name returns a unique identifier for this repository.
func (r *VaultRepository) Name() string {
	return fmt.Sprintf("vault-%s-%s", r.mountPath, r.dataPath)
}

// Location returns the URI that identifies this repository.
func (r *VaultRepository) Location() string {
	return r.location
}

func (r *VaultRepository) keyPath(id interfaces.KeyID) string {
	return fmt.Sprintf("%s/data/%s/keys/%s", r.mountPath, r.dataPath, id)
}
