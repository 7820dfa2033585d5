package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/guttosm/ofxpulse/internal/domain/models"
	"github.com/guttosm/ofxpulse/internal/ofx"
	"github.com/guttosm/ofxpulse/internal/storage"
)

// fileResult summarises one ingested statement file.
type fileResult struct {
	AccountID  string
	Rows       int
	Skipped    int
	Duplicates int
}

// parsedFile is a statement converted in full, not yet stored.
type parsedFile struct {
	AccountID string
	Rows      []models.Transaction
	Skipped   int
}

// parseStatementFile opens, reads and normalises one statement file. It
// fails on:
//   - structural statement errors (see ReadStatement)
//   - date tokens without a YYYYMMDD prefix, always
//   - impossible calendar dates, unless ignoreDateErrors is set; those rows are skipped
func parseStatementFile(
	ctx context.Context,
	path string,
	parser *ofx.DateTimeParser[time.Time],
	ignoreDateErrors bool,
) (parsedFile, error) {
	var out parsedFile

	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	st, err := ReadStatement(f)
	if err != nil {
		return out, fmt.Errorf("read statement: %w", err)
	}
	out.AccountID = st.AccountID
	out.Rows = make([]models.Transaction, 0, len(st.Transactions))

	source := filepath.Base(path)
	for _, raw := range st.Transactions {
		select {
		case <-ctx.Done():
			return parsedFile{}, ctx.Err()
		default:
		}

		txn, ok, err := toTransaction(raw, st, source, parser, ignoreDateErrors)
		if err != nil {
			return parsedFile{}, fmt.Errorf("line %d: %w", raw.Line, err)
		}
		if !ok {
			out.Skipped++
			continue
		}
		out.Rows = append(out.Rows, txn)
	}
	return out, nil
}

// parseAndPersistFile converts the whole file before touching the
// database, then stores it with a single repository call. A file that
// fails to parse leaves previously stored rows and its ingestion_log
// entry untouched.
//
// Parameters:
//   - ctx:     context for cancellation/timeouts.
//   - path:    file path.
//   - repo:    repository for DB insertion.
//   - parser:  date parser shared across files.
//   - batch:   rows per COPY round trip (e.g., 5000).
//   - replace: drop rows loaded earlier from the same file name.
func parseAndPersistFile(
	ctx context.Context,
	path string,
	repo storage.TransactionsRepository,
	parser *ofx.DateTimeParser[time.Time],
	batch int,
	ignoreDateErrors bool,
	replace bool,
) (fileResult, error) {
	parsed, err := parseStatementFile(ctx, path, parser, ignoreDateErrors)
	if err != nil {
		return fileResult{}, err
	}

	loaded, err := repo.LoadStatementFile(ctx, storage.FileLoad{
		Filename:  filepath.Base(path),
		AccountID: parsed.AccountID,
		Rows:      parsed.Rows,
		Skipped:   parsed.Skipped,
		BatchSize: batch,
		Replace:   replace,
	})
	if err != nil {
		return fileResult{}, fmt.Errorf("load: %w", err)
	}

	return fileResult{
		AccountID:  parsed.AccountID,
		Rows:       loaded.Inserted,
		Skipped:    parsed.Skipped,
		Duplicates: loaded.Duplicates,
	}, nil
}

// toTransaction converts the raw tokens of one <STMTTRN> into a
// models.Transaction. ok is false when DTPOSTED was suppressed by
// ignoreDateErrors.
//
// Token mapping:
//
//	DTPOSTED → PostedAt (required, OFX date grammar)
//	DTUSER   → UserDate (optional, zero when blank or suppressed)
//	TRNAMT   → Amount   (US or European separators, never fails)
func toTransaction(
	raw RawTransaction,
	st Statement,
	source string,
	parser *ofx.DateTimeParser[time.Time],
	ignoreDateErrors bool,
) (txn models.Transaction, ok bool, err error) {
	posted, err := parser.Parse(raw.Posted, ignoreDateErrors)
	if err != nil {
		return txn, false, fmt.Errorf("invalid DTPOSTED: %w", err)
	}
	if posted == nil {
		return txn, false, nil
	}

	userDate, err := parser.Parse(raw.UserDate, ignoreDateErrors)
	if err != nil {
		return txn, false, fmt.Errorf("invalid DTUSER: %w", err)
	}

	txn = models.Transaction{
		AccountID:  st.AccountID,
		FITID:      raw.FITID,
		Type:       raw.Type,
		PostedAt:   *posted,
		Amount:     ofx.ParseAmount(raw.Amount),
		Currency:   st.Currency,
		Name:       raw.Name,
		Memo:       raw.Memo,
		SourceFile: source,
	}
	if userDate != nil {
		txn.UserDate = *userDate
	}
	return txn, true, nil
}
