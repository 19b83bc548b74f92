package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for local files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalog loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped catalog file from disk.
func (l *fileLoader) Load(ctx context.Context, path string) ([]Record, error) {
	l.logger.Info().Str("file", path).Msg("loading catalog file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalog file")
		return nil, fmt.Errorf("failed to open catalog file %s: %w", path, err)
	}
	defer file.Close()

	records, err := decodeRecords(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read catalog file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("records", len(records)).
		Msg("catalog file loaded")

	return records, nil
}

// LoadAll loads every path concurrently and returns the records in path
// order. The first failure aborts the whole load.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) ([]Record, error) {
	type loadResult struct {
		index   int
		records []Record
		err     error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			records, err := loader.Load(ctx, path)
			if err != nil {
				cancel()
			}
			resultChan <- loadResult{index: index, records: records, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	var all []Record
	for i, result := range results {
		if result.err != nil {
			logger.Error().Err(result.err).Str("file", paths[i]).Msg("failed to load catalog file")
			return nil, fmt.Errorf("failed to load catalog file %s: %w", paths[i], result.err)
		}
		all = append(all, result.records...)
	}

	logger.Info().
		Int("file_count", len(paths)).
		Int("records", len(all)).
		Msg("catalog loaded")

	return all, nil
}
