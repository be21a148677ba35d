package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// HasPosted reports whether a posted dedup record exists for the product.
// Rejected records do not block reprocessing.
func (s *Store) HasPosted(ctx context.Context, productID string) (bool, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT 1 FROM dedup_records WHERE product_id = ? AND outcome = ?`,
		productID,
		OutcomePosted,
	)
	var one int
	err := row.Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query dedup record: %w", err)
	}
	return true, nil
}

// RecordPosted durably marks a product as posted. The write is idempotent:
// recording posted twice for the same id leaves the first record untouched
// and returns nil. Once posted, the outcome is immutable.
func (s *Store) RecordPosted(ctx context.Context, productID, pinID string) error {
	if productID == "" {
		return errors.New("product id is required")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var existing Outcome
		row := tx.QueryRowContext(ctx, `SELECT outcome FROM dedup_records WHERE product_id = ?`, productID)
		err := row.Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(
				ctx,
				`INSERT INTO dedup_records (product_id, outcome, pin_id, created_at) VALUES (?, ?, ?, ?)`,
				productID,
				OutcomePosted,
				nullableString(pinID),
				time.Now().UTC().Format(time.RFC3339Nano),
			)
			if err != nil {
				return fmt.Errorf("insert dedup record: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("query dedup record: %w", err)
		case existing == OutcomePosted:
			// Idempotent second call.
			return nil
		default:
			_, err = tx.ExecContext(
				ctx,
				`UPDATE dedup_records SET outcome = ?, pin_id = ?, created_at = ? WHERE product_id = ?`,
				OutcomePosted,
				nullableString(pinID),
				time.Now().UTC().Format(time.RFC3339Nano),
				productID,
			)
			if err != nil {
				return fmt.Errorf("promote dedup record: %w", err)
			}
			return nil
		}
	})
}

// RecordRejected records an operator rejection. Rejection is reconsiderable:
// a later call overwrites the timestamp, but a product already posted can
// never be demoted and yields ErrInvalidTransition.
func (s *Store) RecordRejected(ctx context.Context, productID string) error {
	if productID == "" {
		return errors.New("product id is required")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var existing Outcome
		row := tx.QueryRowContext(ctx, `SELECT outcome FROM dedup_records WHERE product_id = ?`, productID)
		err := row.Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
		case err != nil:
			return fmt.Errorf("query dedup record: %w", err)
		case existing == OutcomePosted:
			return fmt.Errorf("%w: product %s is already posted", ErrInvalidTransition, productID)
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO dedup_records (product_id, outcome, pin_id, created_at) VALUES (?, ?, NULL, ?)
             ON CONFLICT(product_id) DO UPDATE SET outcome = excluded.outcome, pin_id = NULL, created_at = excluded.created_at`,
			productID,
			OutcomeRejected,
			time.Now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("upsert dedup record: %w", err)
		}
		return nil
	})
}

// GetDedupRecord fetches the dedup record for a product, or nil when absent.
func (s *Store) GetDedupRecord(ctx context.Context, productID string) (*DedupRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT product_id, outcome, pin_id, created_at FROM dedup_records WHERE product_id = ?`,
		productID,
	)
	record, err := scanDedupRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dedup record: %w", err)
	}
	return record, nil
}

// DedupRecords returns all dedup records ordered by recency.
func (s *Store) DedupRecords(ctx context.Context) ([]*DedupRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT product_id, outcome, pin_id, created_at FROM dedup_records ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list dedup records: %w", err)
	}
	defer rows.Close()

	var records []*DedupRecord
	for rows.Next() {
		record, err := scanDedupRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ClearRejected removes rejection records so those products become eligible
// for curation again. Posted records are never cleared.
func (s *Store) ClearRejected(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM dedup_records WHERE outcome = ?`, OutcomeRejected)
	if err != nil {
		return 0, fmt.Errorf("clear rejected records: %w", err)
	}
	return res.RowsAffected()
}

func scanDedupRecord(scanner interface{ Scan(dest ...any) error }) (*DedupRecord, error) {
	var (
		productID  string
		outcome    string
		pinID      sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&productID, &outcome, &pinID, &createdRaw); err != nil {
		return nil, err
	}
	record := &DedupRecord{
		ProductID: productID,
		Outcome:   Outcome(outcome),
		PinID:     pinID.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		record.CreatedAt = created
	}
	return record, nil
}
