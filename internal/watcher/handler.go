package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/pcmwav"
)

// EncodeFile returns a handler that reads a base64 PCM file and writes the
// wav container next to it, or into outDir when set.
func EncodeFile(f pcmwav.Format, outDir string, done func(path string, size int, err error)) EventHandler {
	return func(_ context.Context, path string) error {
		out, size, err := encodeFile(path, f, outDir)
		if done != nil {
			done(out, size, err)
		}

		return err
	}
}

func encodeFile(path string, f pcmwav.Format, outDir string) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("read input: %w", err)
	}

	wav, err := pcmwav.EncodeBase64(strings.TrimSpace(string(data)), f)
	if err != nil {
		return "", 0, fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create output dir: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".wav"
	out := filepath.Join(dir, name)

	if err := os.WriteFile(out, wav, 0o644); err != nil {
		return "", 0, fmt.Errorf("write output: %w", err)
	}

	return out, len(wav), nil
}
