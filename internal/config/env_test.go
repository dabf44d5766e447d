package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PCMWAV_TEST_VOICE=Puck\nPCMWAV_TEST_KEPT=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PCMWAV_TEST_KEPT", "from-env")
	t.Cleanup(func() { os.Unsetenv("PCMWAV_TEST_VOICE") })

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if got := os.Getenv("PCMWAV_TEST_VOICE"); got != "Puck" {
		t.Errorf("PCMWAV_TEST_VOICE = %q, want Puck", got)
	}

	if got := os.Getenv("PCMWAV_TEST_KEPT"); got != "from-env" {
		t.Errorf("PCMWAV_TEST_KEPT = %q, existing value must win", got)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	if !IsMissing(err) {
		t.Errorf("LoadEnv() error = %v, want a missing file error", err)
	}
}
