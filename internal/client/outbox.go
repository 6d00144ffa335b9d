package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/setlog/internal/models"
)

// Outbox holds finished sessions that could not be submitted, so they can be
// retried later with a flush.
type Outbox struct {
	db *sql.DB
}

// PendingLog is one queued submission.
type PendingLog struct {
	ID        string
	Sub       models.LogSubmission
	Attempts  int
	CreatedAt time.Time
}

// OpenOutbox opens (or creates) the SQLite outbox database at dir/outbox.db.
func OpenOutbox(dir string) (*Outbox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating outbox dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "outbox.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening outbox db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS pending_logs (
		id         TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		attempts   INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating outbox table: %w", err)
	}

	return &Outbox{db: db}, nil
}

// Save queues a submission and returns its id.
func (o *Outbox) Save(sub models.LogSubmission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("marshaling submission: %w", err)
	}

	id := uuid.NewString()
	_, err = o.db.Exec(
		`INSERT INTO pending_logs (id, payload) VALUES (?, ?)`,
		id, string(payload),
	)
	if err != nil {
		return "", fmt.Errorf("queuing submission: %w", err)
	}
	return id, nil
}

// Pending returns all queued submissions, oldest first.
func (o *Outbox) Pending() ([]PendingLog, error) {
	rows, err := o.db.Query(
		`SELECT id, payload, attempts, created_at FROM pending_logs ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []PendingLog
	for rows.Next() {
		var (
			p       PendingLog
			payload string
		)
		if err := rows.Scan(&p.ID, &payload, &p.Attempts, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &p.Sub); err != nil {
			return nil, fmt.Errorf("decoding queued submission %s: %w", p.ID, err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// Delete removes a queued submission after a successful flush.
func (o *Outbox) Delete(id string) error {
	_, err := o.db.Exec(`DELETE FROM pending_logs WHERE id = ?`, id)
	return err
}

// MarkAttempt bumps the attempt counter for a queued submission.
func (o *Outbox) MarkAttempt(id string) error {
	_, err := o.db.Exec(`UPDATE pending_logs SET attempts = attempts + 1 WHERE id = ?`, id)
	return err
}

// Flush tries to submit every queued log through the given client. Successful
// submissions are removed; failures stay queued with a bumped attempt count.
// It returns the number of logs submitted and the first error encountered.
func (o *Outbox) Flush(ctx context.Context, c *Client) (int, error) {
	pending, err := o.Pending()
	if err != nil {
		return 0, fmt.Errorf("listing queued submissions: %w", err)
	}

	var (
		flushed  int
		firstErr error
	)
	for _, p := range pending {
		if _, err := c.SubmitLog(ctx, p.Sub); err != nil {
			if markErr := o.MarkAttempt(p.ID); markErr != nil && firstErr == nil {
				firstErr = markErr
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := o.Delete(p.ID); err != nil && firstErr == nil {
			firstErr = err
			continue
		}
		flushed++
	}
	return flushed, firstErr
}

// Close closes the outbox database.
func (o *Outbox) Close() error {
	return o.db.Close()
}
