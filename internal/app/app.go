package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/notemap/internal/audio"
	"github.com/kobzarvs/notemap/internal/autosave"
	"github.com/kobzarvs/notemap/internal/chart"
	"github.com/kobzarvs/notemap/internal/chartfile"
	"github.com/kobzarvs/notemap/internal/config"
	"github.com/kobzarvs/notemap/internal/editor"
	"github.com/kobzarvs/notemap/internal/logger"
	"github.com/kobzarvs/notemap/internal/session"
)

// App is the top-level runtime for notemap.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() (err error) {
	runtime.LockOSThread()
	opts, err := ParseArgs(a.args)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(opts.Debug); err != nil {
		return err
	}
	defer logger.Close()

	sessions, serr := session.NewManager()
	if serr != nil {
		logger.Warn("session disabled", "err", serr)
	}
	if sessions != nil {
		defer func() { err = multierr.Append(err, sessions.Stop()) }()
		if opts.ChartPath == "" && !opts.Recover {
			opts.ChartPath = sessions.LastChart()
		}
	}

	chartKey := ""
	if opts.ChartPath != "" {
		if chartKey, err = filepath.Abs(opts.ChartPath); err != nil {
			return err
		}
	}

	var store *autosave.Store
	if dbPath, err := autosave.DefaultPath(); err != nil {
		logger.Warn("autosave disabled", "err", err)
	} else if store, err = autosave.Open(dbPath); err != nil {
		logger.Warn("autosave disabled", "path", dbPath, "err", err)
		store = nil
	}
	if store != nil {
		defer func() { err = multierr.Append(err, store.Close()) }()
	}
	if opts.Snapshots {
		if store == nil {
			return errors.New("snapshots: autosave is unavailable")
		}
		return listSnapshots(context.Background(), os.Stdout, store, chartKey)
	}

	c, err := openChart(context.Background(), opts, cfg, store, chartKey)
	if err != nil {
		return err
	}

	ed := editor.New(cfg, c)
	ed.SetPath(opts.ChartPath)

	audioPath := opts.AudioPath
	if sessions != nil && chartKey != "" {
		if st, ok := sessions.ChartState(chartKey); ok {
			ed.Restore(st)
			if audioPath == "" {
				audioPath = st.AudioPath
			}
		}
	}
	if opts.Difficulty != "" {
		d, err := chart.ParseDifficulty(opts.Difficulty)
		if err != nil {
			return err
		}
		ed.SelectDifficulty(d)
	}

	var track *audio.Track
	if audioPath != "" {
		if track, err = audio.Open(audioPath); err != nil {
			return fmt.Errorf("open audio: %w", err)
		}
		defer func() { err = multierr.Append(err, track.Close()) }()
		ed.SetTimeSource(track)
		logger.Info("audio opened", "path", audioPath, "duration", track.Duration(), "sample_rate", int(track.Format().SampleRate))
	}

	states := newStateSync(sessions, chartKey, audioPath)
	defer func() { states.push(ed.State()) }()

	saver := newAutosaver(store, chartKey, cfg.Editor.AutosaveEvery(), cfg.Editor.AutosaveKeep, time.Now())
	defer func() {
		if ferr := saver.flush(context.Background(), ed); ferr != nil {
			logger.Error("final autosave failed", "err", ferr)
		}
	}()

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	stopTicker := make(chan struct{})
	defer close(stopTicker)
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopTicker:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	logger.Info("editing", "chart", opts.ChartPath, "difficulty", c.Difficulty())
	ed.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if _, err := saver.tick(context.Background(), ed, time.Now()); err != nil {
				logger.Error("autosave failed", "err", err)
			}
			states.push(ed.State())
			continue
		}
		ed.Render(s)
	}
}

// openChart loads the chart the editor starts with: the newest snapshot when
// recovering, the file when it exists, otherwise a blank chart.
func openChart(ctx context.Context, opts Options, cfg config.Config, store *autosave.Store, key string) (*chart.Chart, error) {
	chartOpts := cfg.Editor.ChartOptions()
	if opts.Recover {
		if store == nil {
			return nil, errors.New("recover: autosave is unavailable")
		}
		if key == "" {
			key = scratchKey
		}
		snap, err := store.Latest(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("recover %s: %w", key, err)
		}
		logger.Info("recovered autosave", "chart", key, "saved_at", snap.SavedAt)
		return chartfile.Decode(snap.Data, chartOpts)
	}
	if opts.ChartPath != "" {
		c, err := chartfile.Load(opts.ChartPath, chartOpts)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Info("new chart", "path", opts.ChartPath)
	}
	return chart.New(chartOpts, cfg.Editor.InitialBPM, cfg.Editor.InitialLines), nil
}

// listSnapshots prints the autosave snapshots of key, newest first.
func listSnapshots(ctx context.Context, w io.Writer, store *autosave.Store, key string) error {
	if key == "" {
		key = scratchKey
	}
	snaps, err := store.List(ctx, key)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		_, err := fmt.Fprintf(w, "no snapshots for %s\n", key)
		return err
	}
	for _, snap := range snaps {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", snap.ID, snap.SavedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}
