package app

import (
	"context"
	"time"

	"github.com/kobzarvs/notemap/internal/autosave"
	"github.com/kobzarvs/notemap/internal/logger"
)

// scratchKey names the snapshots of a chart that has no file yet.
const scratchKey = "[scratch]"

type snapshotter interface {
	ChangeTick() int
	Snapshot() ([]byte, error)
}

// autosaver writes a snapshot of the chart to the store whenever it changed
// and the interval has passed since the last snapshot.
type autosaver struct {
	store    *autosave.Store
	key      string
	every    time.Duration
	keep     int
	lastTick int
	lastSave time.Time
}

func newAutosaver(store *autosave.Store, key string, every time.Duration, keep int, now time.Time) *autosaver {
	if key == "" {
		key = scratchKey
	}
	return &autosaver{store: store, key: key, every: every, keep: keep, lastSave: now}
}

// tick saves a snapshot when one is due and reports whether it did.
func (a *autosaver) tick(ctx context.Context, src snapshotter, now time.Time) (bool, error) {
	if a == nil || a.store == nil || a.every <= 0 {
		return false, nil
	}
	if src.ChangeTick() == a.lastTick || now.Sub(a.lastSave) < a.every {
		return false, nil
	}
	if err := a.save(ctx, src); err != nil {
		return false, err
	}
	a.lastSave = now
	return true, nil
}

// flush saves pending changes regardless of the interval.
func (a *autosaver) flush(ctx context.Context, src snapshotter) error {
	if a == nil || a.store == nil || src.ChangeTick() == a.lastTick {
		return nil
	}
	return a.save(ctx, src)
}

func (a *autosaver) save(ctx context.Context, src snapshotter) error {
	data, err := src.Snapshot()
	if err != nil {
		return err
	}
	id, err := a.store.Save(ctx, a.key, data)
	if err != nil {
		return err
	}
	a.lastTick = src.ChangeTick()
	if a.keep > 0 {
		n, err := a.store.Prune(ctx, a.key, a.keep)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Debug("autosave pruned", "chart", a.key, "removed", n)
		}
	}
	logger.Debug("autosave written", "chart", a.key, "id", id)
	return nil
}
