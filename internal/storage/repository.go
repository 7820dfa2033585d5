package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	pq "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/guttosm/ofxpulse/internal/domain/models"
)

// TransactionsRepository defines contract for DB operations.
type TransactionsRepository interface {
	LoadStatementFile(ctx context.Context, load FileLoad) (LoadResult, error)
	GetAccountSummary(accountID string, from *time.Time, to *time.Time) (*models.AccountSummary, error)
	HasIngestionForFile(filename string) (bool, error)
}

// FileLoad is one statement file, fully converted, ready to be stored.
//
// Fields:
//   - Filename: base name; keys both source_file and ingestion_log.
//   - Rows: every converted transaction of the file.
//   - Skipped: rows dropped before load (suppressed dates).
//   - BatchSize: rows per COPY round trip; 0 sends all rows at once.
//   - Replace: delete rows previously loaded from Filename first.
type FileLoad struct {
	Filename  string
	AccountID string
	Rows      []models.Transaction
	Skipped   int
	BatchSize int
	Replace   bool
}

// LoadResult reports how many rows were stored and how many were already
// present under the same (account_id, fitid).
type LoadResult struct {
	Inserted   int
	Duplicates int
}

type transactionsRepository struct {
	db *sql.DB
}

func NewTransactionsRepository(db *sql.DB) TransactionsRepository {
	return &transactionsRepository{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

var transactionColumns = []string{
	"account_id",
	"fitid",
	"trn_type",
	"posted_at",
	"user_date",
	"amount",
	"currency",
	"name",
	"memo",
	"source_file",
}

const stageTable = "statement_transactions_stage"

// LoadStatementFile stores a whole file in one database transaction: the
// optional delete of earlier rows, the COPY batches and the ingestion_log
// entry either all commit or all roll back.
//
// Rows are staged in a temporary table and moved with ON CONFLICT DO NOTHING,
// so a FITID already stored for the account is counted as a duplicate
// instead of being inserted twice.
func (r *transactionsRepository) LoadStatementFile(ctx context.Context, load FileLoad) (LoadResult, error) {
	var res LoadResult

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	fail := func(err error) (LoadResult, error) {
		_ = tx.Rollback()
		return LoadResult{}, err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		return fail(err)
	}

	if load.Replace {
		if err := deleteTransactionsByFile(ctx, tx, load.Filename); err != nil {
			return fail(fmt.Errorf("delete existing: %w", err))
		}
	}

	if len(load.Rows) > 0 {
		if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE `+stageTable+` ON COMMIT DROP AS
			SELECT `+strings.Join(transactionColumns, ", ")+`
			FROM statement_transactions WITH NO DATA`); err != nil {
			return fail(fmt.Errorf("create stage: %w", err))
		}

		batch := load.BatchSize
		if batch <= 0 {
			batch = len(load.Rows)
		}
		for start := 0; start < len(load.Rows); start += batch {
			end := start + batch
			if end > len(load.Rows) {
				end = len(load.Rows)
			}
			if err := copyTransactions(ctx, tx, load.Rows[start:end]); err != nil {
				return fail(fmt.Errorf("copy rows %d-%d: %w", start, end-1, err))
			}
		}

		cols := strings.Join(transactionColumns, ", ")
		out, err := tx.ExecContext(ctx, `
			INSERT INTO statement_transactions (`+cols+`)
			SELECT `+cols+` FROM `+stageTable+`
			ON CONFLICT (account_id, fitid) WHERE fitid <> '' DO NOTHING
		`)
		if err != nil {
			return fail(fmt.Errorf("move staged rows: %w", err))
		}
		n, err := out.RowsAffected()
		if err != nil {
			return fail(err)
		}
		res.Inserted = int(n)
		res.Duplicates = len(load.Rows) - res.Inserted
	}

	if err := upsertIngestionLog(ctx, tx, load.Filename, load.AccountID, res.Inserted, load.Skipped, res.Duplicates); err != nil {
		return fail(fmt.Errorf("upsert ingestion log: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return LoadResult{}, err
	}
	return res, nil
}

// copyTransactions streams txns into the stage table with COPY.
func copyTransactions(ctx context.Context, tx *sql.Tx, txns []models.Transaction) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(stageTable, transactionColumns...))
	if err != nil {
		return err
	}

	// DTUSER is optional; store NULL rather than year 1.
	toNullTime := func(t time.Time) interface{} {
		if t.IsZero() {
			return nil
		}
		return t
	}

	for _, rec := range txns {
		if _, err := stmt.ExecContext(ctx,
			rec.AccountID,
			rec.FITID,
			rec.Type,
			rec.PostedAt,
			toNullTime(rec.UserDate),
			rec.Amount.String(),
			rec.Currency,
			rec.Name,
			rec.Memo,
			rec.SourceFile,
		); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return err
	}
	return stmt.Close()
}

// HasIngestionForFile checks if a statement file was already ingested.
func (r *transactionsRepository) HasIngestionForFile(filename string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE filename = $1)`, filename).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// upsertIngestionLog records (or updates) an ingestion entry for a file.
func upsertIngestionLog(ctx context.Context, q execer, filename, accountID string, rowCount, skipped, duplicates int) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO ingestion_log (filename, account_id, row_count, skipped_count, duplicate_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (filename)
		DO UPDATE SET account_id = EXCLUDED.account_id,
					  row_count = EXCLUDED.row_count,
					  skipped_count = EXCLUDED.skipped_count,
					  duplicate_count = EXCLUDED.duplicate_count,
					  ingested_at = NOW()
	`, filename, accountID, rowCount, skipped, duplicates)
	return err
}

// deleteTransactionsByFile removes every row loaded from filename.
func deleteTransactionsByFile(ctx context.Context, q execer, filename string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM statement_transactions WHERE source_file = $1`, filename)
	return err
}

// GetAccountSummary returns counts and sums for an account, optionally
// bounded by posting time. It returns (nil, nil) when nothing matches.
func (r *transactionsRepository) GetAccountSummary(accountID string, from *time.Time, to *time.Time) (*models.AccountSummary, error) {
	// $1 is always the account. Subsequent placeholders depend on provided bounds.
	conditions := "account_id = $1"
	args := []interface{}{accountID}
	if from != nil {
		conditions += fmt.Sprintf(" AND posted_at >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		conditions += fmt.Sprintf(" AND posted_at <= $%d", len(args)+1)
		args = append(args, *to)
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS txn_count,
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS credits,
			COALESCE(SUM(amount) FILTER (WHERE amount < 0), 0) AS debits,
			MIN(posted_at) AS first_posted,
			MAX(posted_at) AS last_posted
		FROM statement_transactions
		WHERE %s
	`, conditions)

	var (
		count   int64
		credits decimal.Decimal
		debits  decimal.Decimal
		first   sql.NullTime
		last    sql.NullTime
	)
	if err := r.db.QueryRow(query, args...).Scan(&count, &credits, &debits, &first, &last); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	return &models.AccountSummary{
		AccountID:    accountID,
		Transactions: count,
		Credits:      credits,
		Debits:       debits,
		Net:          credits.Add(debits),
		FirstPosted:  first.Time,
		LastPosted:   last.Time,
	}, nil
}
