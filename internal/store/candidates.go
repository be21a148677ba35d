package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const candidateColumns = "id, run_id, product_id, product_json, title, description, image_path, image_flags, status, error_message, created_at, updated_at"

// InsertCandidate persists a new pending candidate and returns it with its
// assigned id and timestamps.
func (s *Store) InsertCandidate(ctx context.Context, candidate *Candidate) (*Candidate, error) {
	if candidate == nil {
		return nil, errors.New("candidate is nil")
	}
	if candidate.ProductID == "" {
		return nil, errors.New("candidate product id is required")
	}
	if candidate.Status == "" {
		candidate.Status = StatusPending
	}
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO candidate_pins (
            run_id, product_id, product_json, title, description,
            image_path, image_flags, status, error_message, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		candidate.RunID,
		candidate.ProductID,
		candidate.ProductJSON,
		nullableString(candidate.Title),
		nullableString(candidate.Description),
		nullableString(candidate.ImagePath),
		nullableString(joinFlags(candidate.ImageFlags)),
		candidate.Status,
		nullableString(candidate.ErrorMessage),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert candidate: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetCandidate(ctx, id)
}

// GetCandidate fetches a candidate by identifier, or nil when absent.
func (s *Store) GetCandidate(ctx context.Context, id int64) (*Candidate, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+candidateColumns+` FROM candidate_pins WHERE id = ?`, id)
	candidate, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return candidate, nil
}

// Candidates returns candidates filtered by status set (or all candidates
// when no status is provided) ordered by creation time.
func (s *Store) Candidates(ctx context.Context, statuses ...Status) ([]*Candidate, error) {
	ctx = ensureContext(ctx)

	baseQuery := `SELECT ` + candidateColumns + ` FROM candidate_pins`
	orderClause := ` ORDER BY created_at, id`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// CandidatesByRun returns all candidates belonging to one curation run.
func (s *Store) CandidatesByRun(ctx context.Context, runID string) ([]*Candidate, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+candidateColumns+` FROM candidate_pins WHERE run_id = ? ORDER BY created_at, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list candidates by run: %w", err)
	}
	defer rows.Close()

	var candidates []*Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

// TransitionCandidate moves a candidate to a new status, enforcing the state
// machine. Decisions on an already-decided candidate return ErrAlreadyDecided;
// other illegal moves return ErrInvalidTransition.
func (s *Store) TransitionCandidate(ctx context.Context, id int64, to Status, errorMessage string) (*Candidate, error) {
	if _, known := statusSet[to]; !known {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var current Status
		row := tx.QueryRowContext(ctx, `SELECT status FROM candidate_pins WHERE id = ?`, id)
		if err := row.Scan(&current); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: id %d", ErrCandidateNotFound, id)
			}
			return fmt.Errorf("query candidate status: %w", err)
		}
		if !CanTransition(current, to) {
			if (to == StatusApproved || to == StatusRejected) && current != StatusPending {
				return fmt.Errorf("%w: candidate %d is %s", ErrAlreadyDecided, id, current)
			}
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, to)
		}
		_, err := tx.ExecContext(
			ctx,
			`UPDATE candidate_pins SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
			to,
			nullableString(errorMessage),
			time.Now().UTC().Format(time.RFC3339Nano),
			id,
		)
		if err != nil {
			return fmt.Errorf("update candidate status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCandidate(ctx, id)
}

// ClearUndecided removes leftover pending and approved-but-unposted
// candidates. Each curation run starts from a clean review queue; decided
// history (rejected/posted/post_failed) is preserved for the operator.
func (s *Store) ClearUndecided(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM candidate_pins WHERE status IN (?, ?)`,
		StatusPending,
		StatusApproved,
	)
	if err != nil {
		return 0, fmt.Errorf("clear undecided candidates: %w", err)
	}
	return res.RowsAffected()
}

// CandidateStats returns candidate counts grouped by status.
func (s *Store) CandidateStats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM candidate_pins GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("candidate stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.Total += count
		switch status {
		case StatusPending:
			stats.Pending += count
		case StatusApproved:
			stats.Approved += count
		case StatusRejected:
			stats.Rejected += count
		case StatusPosted:
			stats.Posted += count
		case StatusPostFailed:
			stats.PostFailed += count
		}
	}
	return stats, rows.Err()
}

func scanCandidate(scanner interface{ Scan(dest ...any) error }) (*Candidate, error) {
	var (
		id           int64
		runID        string
		productID    string
		productJSON  string
		title        sql.NullString
		description  sql.NullString
		imagePath    sql.NullString
		imageFlags   sql.NullString
		statusStr    string
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&id,
		&runID,
		&productID,
		&productJSON,
		&title,
		&description,
		&imagePath,
		&imageFlags,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	candidate := &Candidate{
		ID:           id,
		RunID:        runID,
		ProductID:    productID,
		ProductJSON:  productJSON,
		Title:        title.String,
		Description:  description.String,
		ImagePath:    imagePath.String,
		ImageFlags:   splitFlags(imageFlags.String),
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		candidate.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		candidate.UpdatedAt = updated
	}
	return candidate, nil
}
