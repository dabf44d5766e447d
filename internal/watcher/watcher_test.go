package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/pcmwav"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcherHandlesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	seen := make(chan string, 4)

	w, err := New(dir, func(_ context.Context, path string) error {
		seen <- filepath.Base(path)
		return nil
	}, Options{Extension: ".b64", Settle: 10 * time.Millisecond, Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	// let the loop start before creating files
	time.Sleep(50 * time.Millisecond)

	for _, name := range []string{"skip.txt", ".hidden.b64", "voice.b64"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("AQACAA=="), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case got := <-seen:
		if got != "voice.b64" {
			t.Errorf("handled %q, want voice.b64", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
	}

	cancel()

	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	select {
	case got := <-seen:
		t.Errorf("unexpected extra file handled: %s", got)
	default:
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), nil, Options{}); err == nil {
		t.Error("New() should fail for a missing directory")
	}
}

func TestEncodeFile(t *testing.T) {
	in := filepath.Join(t.TempDir(), "clip.b64")
	if err := os.WriteFile(in, []byte("AQACAAMABAA=\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(t.TempDir(), "out")

	var gotPath string
	var gotSize int
	handler := EncodeFile(pcmwav.TTSFormat, outDir, func(path string, size int, err error) {
		gotPath, gotSize = path, size
	})

	if err := handler(context.Background(), in); err != nil {
		t.Fatalf("handler error = %v", err)
	}

	if want := filepath.Join(outDir, "clip.wav"); gotPath != want {
		t.Errorf("output = %s, want %s", gotPath, want)
	}

	wav, err := os.ReadFile(gotPath)
	if err != nil {
		t.Fatal(err)
	}

	if len(wav) != 52 || gotSize != 52 {
		t.Errorf("size = %d (reported %d), want 52", len(wav), gotSize)
	}
}

func TestEncodeFileRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bad.b64")
	if err := os.WriteFile(in, []byte("AQID"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := EncodeFile(pcmwav.TTSFormat, "", nil)(context.Background(), in)
	if !errors.Is(err, pcmwav.ErrMalformedAudio) {
		t.Errorf("error = %v, want ErrMalformedAudio", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "bad.wav")); !os.IsNotExist(statErr) {
		t.Error("no output should be written for rejected input")
	}
}
