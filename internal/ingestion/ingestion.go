package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/ofxpulse/internal/logger"
	"github.com/guttosm/ofxpulse/internal/ofx"
	"github.com/guttosm/ofxpulse/internal/storage"
)

const (
	defaultBatchSize   = 5000
	defaultMaxParallel = 8
)

// statementExts lists the file extensions picked up from the input directory.
var statementExts = map[string]struct{}{
	".ofx": {},
	".qfx": {},
}

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.TransactionsRepository {
	return storage.NewTransactionsRepository(db)
}

// Options tunes ProcessDirectory.
//
// Fields:
//   - Parallel: files processed concurrently; 0 means min(NumCPU, 8).
//   - Force: re-ingest files already present in ingestion_log.
//   - BatchSize: rows per COPY batch; 0 means 5000.
//   - IgnoreDateErrors: skip rows with impossible dates instead of failing the file.
//   - Parser: date parser; nil means ofx.NewDateTimeParser with defaults.
type Options struct {
	Parallel         int
	Force            bool
	BatchSize        int
	IgnoreDateErrors bool
	Parser           *ofx.DateTimeParser[time.Time]
}

// ProcessDirectory ingests every .ofx/.qfx statement found in dir.
//
// Behavior:
//   - Fails upfront when the directory holds no statement files.
//   - Skips files already recorded in ingestion_log unless opts.Force,
//     in which case their rows are replaced in the same database
//     transaction that loads the new ones.
//   - Converts a whole file before storing it; a file that fails leaves
//     the database as it was.
//   - Processes files concurrently; the first error cancels the rest.
//
// Returns:
//   - error: first error encountered (if any).
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, opts Options) error {
	repo := repoCtor(db)
	log := logger.Component("ingestion")

	files, err := listStatementFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .ofx or .qfx files in %s", dir)
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	parser := opts.Parser
	if parser == nil {
		parser = ofx.NewDateTimeParser[time.Time](nil)
	}

	maxParallel := defaultMaxParallel
	if opts.Parallel > 0 {
		maxParallel = opts.Parallel
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	log.Info().Int("files", len(files)).Str("dir", dir).Int("max_parallel", maxParallel).Msg("ingestion start")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, file := range files {
		idx := i
		f := file

		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)
			log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Msg("file start")

			exists, err := repo.HasIngestionForFile(base)
			if err != nil {
				log.Error().Str("file", base).Err(err).Msg("check ingestion log failed")
				return fmt.Errorf("file %s: check ingestion log: %w", f, err)
			}
			if exists && !opts.Force {
				log.Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Bool("skipped", true).Msg("already ingested")
				return nil
			}
			res, err := parseAndPersistFile(gctx, f, repo, parser, opts.BatchSize, opts.IgnoreDateErrors, exists)
			if err != nil {
				log.Error().Str("file", base).Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			log.Info().
				Int("idx", idx+1).
				Int("total", len(files)).
				Str("file", base).
				Str("account", res.AccountID).
				Int("rows", res.Rows).
				Int("skipped", res.Skipped).
				Int("duplicates", res.Duplicates).
				Dur("elapsed", time.Since(start)).
				Bool("force", opts.Force).
				Msg("file done")
			return nil
		})
	}

	return g.Wait()
}

// listStatementFiles returns the statement files of dir in name order.
func listStatementFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := statementExts[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
