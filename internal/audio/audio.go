// Package audio decodes the song a chart is timed against. It provides the
// length and a seekable position; nothing is sent to a sound device.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var ErrUnsupported = errors.New("unsupported audio format")

// Track is an opened song. It satisfies chart.TimeSource.
type Track struct {
	mu       sync.Mutex
	path     string
	streamer beep.StreamSeekCloser
	format   beep.Format
}

// Open decodes the file at path, picking the decoder from the extension.
func Open(path string) (*Track, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".ogg", ".wav":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return &Track{path: path, streamer: streamer, format: format}, nil
}

func (t *Track) Path() string {
	return t.path
}

func (t *Track) Format() beep.Format {
	return t.format
}

// Duration is the total length of the song.
func (t *Track) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.format.SampleRate.D(t.streamer.Len())
}

// Seek moves the position, clamped to the song.
func (t *Track) Seek(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.format.SampleRate.N(d)
	if n < 0 {
		n = 0
	}
	if l := t.streamer.Len(); n > l {
		n = l
	}
	if err := t.streamer.Seek(n); err != nil {
		return err
	}
	return t.streamer.Err()
}

func (t *Track) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.format.SampleRate.D(t.streamer.Position())
}

func (t *Track) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.streamer.Close()
}
