package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchDeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swirl.yaml")
	if err := os.WriteFile(path, []byte("particles:\n  count: 100\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, err := Watch(ctx, path)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if err := os.WriteFile(path, []byte("particles:\n  count: 321\n"), 0644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-updates:
			if cfg.Particles.Count == 321 {
				return
			}
		case <-timeout:
			t.Fatal("no reloaded config delivered")
		}
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swirl.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	updates, err := Watch(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	select {
	case _, ok := <-updates:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatchRequiresPath(t *testing.T) {
	if _, err := Watch(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}
