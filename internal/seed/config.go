package seed

import (
	"context"

	"prank-kart/internal/config"

	"github.com/rs/zerolog"
)

// NewLoader builds the loader cfg asks for: S3 with a local fallback when S3
// is enabled, local files otherwise.
func NewLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) Loader {
	fileLoader := NewFileLoader(logger)

	if !cfg.Enabled {
		logger.Info().Msg("using local file system for catalog documents (S3 disabled)")
		return NewFallbackLoader(nil, fileLoader, "", logger)
	}

	s3Loader, err := NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return NewFallbackLoader(nil, fileLoader, "", logger)
	}

	return NewFallbackLoader(s3Loader, fileLoader, cfg.Prefix, logger)
}
