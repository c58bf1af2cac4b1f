// Package autosave keeps recovery copies of exported charts in a sqlite
// database, keyed by the chart's path.
package autosave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"
)

var ErrNotFound = errors.New("no autosave snapshot")

const schema = `
create table if not exists snapshots
  (
    id       integer not null primary key,
    chart    text not null,
    saved_at integer not null,
    data     blob not null
  );
create index if not exists snapshots_chart on snapshots(chart, id);
`

type Snapshot struct {
	ID      int64
	Chart   string
	SavedAt time.Time
	Data    []byte
}

type Store struct {
	db     *sql.DB
	insert *sql.Stmt
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init autosave schema: %w", err)
	}
	insert, err := db.Prepare("insert into snapshots(chart, saved_at, data) values(?, ?, ?)")
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, insert: insert}, nil
}

// DefaultPath is autosave.db in the XDG state directory.
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "notemap", "autosave.db"), nil
}

// Save stores data as the newest snapshot of chartPath.
func (s *Store) Save(ctx context.Context, chartPath string, data []byte) (int64, error) {
	res, err := s.insert.ExecContext(ctx, chartPath, time.Now().UnixNano(), data)
	if err != nil {
		return 0, fmt.Errorf("save snapshot: %w", err)
	}
	return res.LastInsertId()
}

// Latest returns the newest snapshot of chartPath.
func (s *Store) Latest(ctx context.Context, chartPath string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		"select id, chart, saved_at, data from snapshots where chart = ? order by id desc limit 1", chartPath)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%s: %w", chartPath, ErrNotFound)
	}
	return snap, err
}

// List returns the snapshots of chartPath, newest first, without their data.
func (s *Store) List(ctx context.Context, chartPath string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"select id, chart, saved_at from snapshots where chart = ? order by id desc", chartPath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var savedAt int64
		if err := rows.Scan(&snap.ID, &snap.Chart, &savedAt); err != nil {
			return nil, err
		}
		snap.SavedAt = time.Unix(0, savedAt)
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Prune keeps the newest keep snapshots of chartPath and reports how many
// were deleted.
func (s *Store) Prune(ctx context.Context, chartPath string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
delete from snapshots where chart = ? and id not in
  (select id from snapshots where chart = ? order by id desc limit ?)`,
		chartPath, chartPath, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) Close() error {
	return multierr.Combine(s.insert.Close(), s.db.Close())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (Snapshot, error) {
	var snap Snapshot
	var savedAt int64
	if err := row.Scan(&snap.ID, &snap.Chart, &savedAt, &snap.Data); err != nil {
		return Snapshot{}, err
	}
	snap.SavedAt = time.Unix(0, savedAt)
	return snap, nil
}
