package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

func writeSilence(t *testing.T, seconds int) string {
	t.Helper()
	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	path := filepath.Join(t.TempDir(), "song.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := wav.Encode(f, beep.Silence(format.SampleRate.N(time.Duration(seconds)*time.Second)), format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestOpenWav(t *testing.T) {
	tr, err := Open(writeSilence(t, 2))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer tr.Close()

	if got := tr.Duration(); got != 2*time.Second {
		t.Fatalf("Duration = %v, want 2s", got)
	}
	if err := tr.Seek(500 * time.Millisecond); err != nil {
		t.Fatalf("Seek error: %v", err)
	}
	if got := tr.Position(); got != 500*time.Millisecond {
		t.Fatalf("Position = %v, want 500ms", got)
	}
	if err := tr.Seek(time.Minute); err != nil {
		t.Fatalf("Seek past the end: %v", err)
	}
	if got := tr.Position(); got != 2*time.Second {
		t.Fatalf("Position = %v, want 2s", got)
	}
}

func TestOpenUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	if err := os.WriteFile(path, []byte("fLaC"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("Open error = %v, want ErrUnsupported", err)
	}
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.wav")
	if err := os.WriteFile(path, []byte("not a wav file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatalf("Open succeeded on a corrupt file")
	}
}
