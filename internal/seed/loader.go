package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for documents on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based document loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-file-loader").Logger(),
	}
}

// Load reads a gzipped catalogue document from disk.
func (l *fileLoader) Load(ctx context.Context, filePath string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", filePath).Msg("loading catalog document")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalog document")
		return nil, fmt.Errorf("failed to open catalog document %s: %w", filePath, err)
	}
	defer file.Close()

	doc, err := decode(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to read catalog document")
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Str("kind", doc.Kind).
		Int("items", len(doc.Items)).
		Msg("catalog document loaded")

	return doc, nil
}
