package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/keywarden/keywarden/common"
)

// SetupLogger builds the process logger from the common logging flags.
func SetupLogger(cCtx *cli.Context) *slog.Logger {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJsonFlag.Name),
		Service: cCtx.String(LogServiceFlag.Name),
		Version: common.Version,
	})

	if cCtx.Bool(LogUidFlag.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: "keywarden",
	Usage: "add 'service' tag to logs",
}

var PolicyFileFlag = &cli.StringFlag{
	Name:  "policy-file",
	Value: "/etc/keywarden/policy.yaml",
	Usage: "path to the administrator policy file",
}
var StrictEphemeralFlag = &cli.BoolFlag{
	Name:  "strict-ephemeral",
	Value: false,
	Usage: "fail startup instead of warning when only ephemeral key storage is available",
}

var VaultAddrFlag = &cli.StringFlag{
	Name:  "vault-addr",
	Usage: "address of the machine-wide Vault key store (empty disables the machine tier)",
}
var VaultTokenFlag = &cli.StringFlag{
	Name:    "vault-token",
	Usage:   "Vault authentication token",
	EnvVars: []string{"VAULT_TOKEN"},
}
var VaultMountFlag = &cli.StringFlag{
	Name:  "vault-mount",
	Value: "secret",
	Usage: "Vault KV v2 mount for the machine key store",
}

var EscrowDirFlag = &cli.StringFlag{
	Name:  "escrow-dir",
	Value: "/var/lib/keywarden/escrow",
	Usage: "directory used by the file escrow sink",
}
var EscrowBucketFlag = &cli.StringFlag{
	Name:  "escrow-s3-bucket",
	Usage: "bucket used by the S3 escrow sink",
}
var EscrowRegionFlag = &cli.StringFlag{
	Name:  "escrow-s3-region",
	Value: "us-east-1",
	Usage: "region used by the S3 escrow sink",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
}
