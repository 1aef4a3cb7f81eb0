// Package store provides a SQLite-backed journal of actions taken from this
// client. Server state (stats, projects) is never stored here.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/cfarm/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Journal records taps, contributions, AFK claims and upgrade purchases.
type Journal struct {
	db *sql.DB
}

// DefaultPath returns the journal location under the XDG data directory.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cfarm", "journal.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "cfarm", "journal.db")
}

// Open opens or creates the journal database at the given path.
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores an action. Missing ids and timestamps are filled in.
func (j *Journal) Record(rec model.ActionRecord) (model.ActionRecord, error) {
	if rec.Kind == "" {
		return rec, errors.New("journal: action kind required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	ok := 0
	if rec.OK {
		ok = 1
	}

	_, err := j.db.Exec(`INSERT INTO actions
		(id, kind, project_id, amount, reward, ok, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), string(rec.ProjectID), rec.Amount, rec.Reward, ok, rec.Message,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return rec, fmt.Errorf("journal: inserting action: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit actions, newest first.
func (j *Journal) Recent(limit int) ([]model.ActionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := j.db.Query(`SELECT id, kind, project_id, amount, reward, ok, message, created_at
		FROM actions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.ActionRecord
	for rows.Next() {
		var (
			rec       model.ActionRecord
			kind      string
			projectID sql.NullString
			message   sql.NullString
			ok        int
			created   string
		)
		if err := rows.Scan(&rec.ID, &kind, &projectID, &rec.Amount, &rec.Reward, &ok, &message, &created); err != nil {
			return nil, err
		}
		rec.Kind = model.ActionKind(kind)
		rec.ProjectID = model.ProjectID(projectID.String)
		rec.Message = message.String
		rec.OK = ok != 0
		rec.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Totals summarizes successful actions.
type Totals struct {
	Taps          int
	Rewards       float64
	Contributions int
	Contributed   float64
	AFKEarnings   float64
	Upgrades      int
}

// Totals returns aggregates over successful actions.
func (j *Journal) Totals() (Totals, error) {
	var t Totals
	err := j.db.QueryRow(`SELECT
		COALESCE(SUM(CASE WHEN kind = 'tap' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN kind = 'tap' THEN reward ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN kind = 'contribute' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN kind = 'contribute' THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN kind = 'afk' THEN reward ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN kind = 'upgrade' THEN 1 ELSE 0 END), 0)
		FROM actions WHERE ok = 1`).Scan(&t.Taps, &t.Rewards, &t.Contributions, &t.Contributed, &t.AFKEarnings, &t.Upgrades)
	return t, err
}
