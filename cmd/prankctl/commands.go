package main

import (
	"context"
	"fmt"
	"time"

	"prank-kart/internal/cache"
	"prank-kart/internal/config"
	"prank-kart/internal/database"
	"prank-kart/internal/repository"
	"prank-kart/internal/seed"
	"prank-kart/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "prankctl",
		Short:         "Operational tasks for prank-kart",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override LOG_LEVEL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Operation timeout")

	root.AddCommand(newMigrateCmd(opts), newSeedCmd(opts))
	return root
}

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}
			return database.Migrate(cfg.Database.ConnectionString(), logger)
		},
	}
}

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [files...]",
		Short: "Load catalog documents into the database",
		Long: `Load gzipped YAML catalog documents (pranks, boxes, wraps, categories)
and upsert them into the catalog tables.

Files default to CATALOG_SEED_FILES. With S3_ENABLED each file is read from
S3_BUCKET under S3_PREFIX first, falling back to the local path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(opts)
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files = cfg.Catalog.SeedFiles
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			return runSeed(ctx, cfg, files, logger, cmd)
		},
	}
}

func runSeed(ctx context.Context, cfg *config.Config, files []string, logger zerolog.Logger, cmd *cobra.Command) error {
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	catalogRepo := repository.NewCatalogRepository(pool, logger)

	// a stale cache only lives until its TTL, so seeding goes ahead without Redis
	var invalidator seed.Invalidator
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, catalog cache not invalidated")
	} else {
		defer redisClient.Close()
		catalogCache := cache.NewRedisCache(redisClient, cfg.Catalog.CacheTTL)
		invalidator = service.NewCatalogService(catalogRepo, catalogCache, logger)
	}

	seeder := seed.NewSeeder(seed.NewLoader(ctx, cfg.S3, logger), catalogRepo, invalidator, logger)
	summary, err := seeder.Run(ctx, files)
	if err != nil {
		return err
	}

	cmd.Printf("seeded %d categories\n", summary.Categories)
	for kind, n := range summary.Items {
		cmd.Printf("seeded %d %s\n", n, kind)
	}
	return nil
}

func setup(opts *options) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.logLevel != "" {
		cfg.Logger.Level = opts.logLevel
	}
	return cfg, config.NewLogger(cfg.Logger), nil
}
