package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/keywarden/keywarden/cmd/flags"
	"github.com/keywarden/keywarden/escrow"
	"github.com/keywarden/keywarden/interfaces"
	"github.com/keywarden/keywarden/policy"
	"github.com/keywarden/keywarden/probe"
	"github.com/keywarden/keywarden/repository"
	"github.com/keywarden/keywarden/resolver"
	"github.com/keywarden/keywarden/services"
	"github.com/keywarden/keywarden/wrap"
)

func main() {
	app := &cli.App{
		Name:  "keywarden",
		Usage: "Resolve key-management startup policy for this host",
		Flags: append([]cli.Flag{
			flags.PolicyFileFlag,
			flags.StrictEphemeralFlag,
			flags.VaultAddrFlag,
			flags.VaultTokenFlag,
			flags.VaultMountFlag,
			flags.EscrowDirFlag,
			flags.EscrowBucketFlag,
			flags.EscrowRegionFlag,
		}, flags.CommonFlags...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx)
	ctx := context.Background()

	store := policy.NewYAMLFileStore(cCtx.String(flags.PolicyFileFlag.Name), logger)
	sinks := builtinSinks(cCtx, logger)
	wrapCap := wrap.NewPlatform(logger)

	var machineFactory resolver.MachineStoreFactory
	var machineProbe func(context.Context) bool

	if vaultAddr := cCtx.String(flags.VaultAddrFlag.Name); vaultAddr != "" {
		vaultRepo, err := repository.NewVaultRepository(repository.VaultConfig{
			Address:   vaultAddr,
			Token:     cCtx.String(flags.VaultTokenFlag.Name),
			MountPath: cCtx.String(flags.VaultMountFlag.Name),
		}, logger)
		if err != nil {
			logger.Error("Failed to configure machine-wide key store", "err", err)
			return err
		}
		machineFactory = func() (interfaces.KeyRepository, error) { return vaultRepo, nil }
		machineProbe = vaultRepo.Available
	}

	env := probe.NewEnvironment(probe.Config{MachineProbe: machineProbe}, logger)
	selector := resolver.NewSelector(env, wrapCap, machineFactory, logger)

	engine := resolver.NewEngine(store, sinks, selector, logger)
	if cCtx.Bool(flags.StrictEphemeralFlag.Name) {
		engine = engine.WithStrictEphemeral()
	}

	col := services.NewCollection(logger)
	res, err := engine.Resolve(ctx, col)
	if err != nil {
		logger.Error("Startup resolution failed", "err", err)
		return err
	}

	report(logger, col, res)
	return nil
}

// builtinSinks registers the escrow sinks shipped with keywarden under
// their type identifiers.
func builtinSinks(cCtx *cli.Context, logger *slog.Logger) *escrow.Registry {
	reg := escrow.NewRegistry(logger)

	escrowDir := cCtx.String(flags.EscrowDirFlag.Name)
	reg.Register("keywarden/escrow.FileSink", func() (interfaces.KeyEscrowSink, error) {
		return escrow.NewFileSink(escrowDir, logger)
	})

	bucket := cCtx.String(flags.EscrowBucketFlag.Name)
	region := cCtx.String(flags.EscrowRegionFlag.Name)
	reg.Register("keywarden/escrow.S3Sink", func() (interfaces.KeyEscrowSink, error) {
		return escrow.NewS3Sink(escrow.S3Config{Bucket: bucket, Region: region}, logger)
	})

	vaultAddr := cCtx.String(flags.VaultAddrFlag.Name)
	vaultToken := cCtx.String(flags.VaultTokenFlag.Name)
	reg.Register("keywarden/escrow.VaultSink", func() (interfaces.KeyEscrowSink, error) {
		return escrow.NewVaultSink(escrow.VaultSinkConfig{Address: vaultAddr, Token: vaultToken}, logger)
	})

	return reg
}

func report(logger *slog.Logger, col *services.Collection, res *resolver.Resolution) {
	repo, _ := col.KeyRepository()
	logger.Info("Key repository",
		slog.String("tier", res.Tier.String()),
		slog.String("name", repo.Name()),
		slog.String("location", repo.Location()))

	if enc, ok := col.KeyEncryptor(); ok {
		logger.Info("Key wrapping", slog.String("scope", enc.Scope().String()))
	} else {
		logger.Info("Key wrapping disabled; keys are stored unwrapped")
	}

	if cfg, ok := col.AlgorithmConfiguration(); ok {
		logger.Info("Payload encryption", slog.String("type", cfg.EncryptionType()))
	}

	if opts, ok := col.KeyManagementOptions(); ok {
		logger.Info("Key lifecycle", slog.Duration("newKeyLifetime", opts.NewKeyLifetime))
	}

	for _, sink := range col.EscrowSinks() {
		logger.Info("Escrow sink", slog.String("name", sink.Name()))
	}

	for _, w := range res.Warnings {
		logger.Warn(w)
	}
}
