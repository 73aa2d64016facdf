package watcher

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Debounce != 300*time.Millisecond {
		t.Errorf("Debounce = %v, want 300ms", config.Debounce)
	}
	if !reflect.DeepEqual(config.Include, []string{".cs"}) {
		t.Errorf("Include = %v", config.Include)
	}
	if len(config.Exclude) == 0 {
		t.Error("Exclude should not be empty")
	}
}

func TestWatcherIsRelevant(t *testing.T) {
	w, err := New(Config{Include: []string{".cs", ".csx"}}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.fsw.Close()

	tests := []struct {
		path string
		want bool
	}{
		{"src/Program.cs", true},
		{"src/Program.CS", true},
		{"script.csx", true},
		{"README.md", false},
		{"Program.cs.bak", false},
		{"cs", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := w.IsRelevant(tt.path); got != tt.want {
				t.Errorf("IsRelevant(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcherAddSkipsExcluded(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src/Models", "bin/Debug", "Obj"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New(Config{Exclude: []string{"bin", "obj"}}, nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.fsw.Close()

	if err := w.Add(root); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	want := []string{root, filepath.Join(root, "src"), filepath.Join(root, "src", "Models")}
	if got := w.WatchedDirs(); !reflect.DeepEqual(got, want) {
		t.Errorf("WatchedDirs() = %v, want %v", got, want)
	}

	// Adding again is a no-op.
	if err := w.Add(root); err != nil {
		t.Fatalf("second Add() error = %v", err)
	}
	if got := len(w.WatchedDirs()); got != len(want) {
		t.Errorf("watched %d dirs after second Add, want %d", got, len(want))
	}
}

func TestWatcherAddMissingDir(t *testing.T) {
	w, err := New(DefaultConfig(), nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.fsw.Close()

	if err := w.Add(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Add() of a missing directory should fail")
	}
}

func TestWatcherRunDeliversBatches(t *testing.T) {
	root := t.TempDir()
	batches := make(chan []string, 4)

	w, err := New(Config{Debounce: 50 * time.Millisecond}, nil, func(_ context.Context, paths []string) {
		batches <- paths
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Add(root); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	target := filepath.Join(root, "A.cs")
	if err := os.WriteFile(target, []byte("class A {}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-batches:
		if !reflect.DeepEqual(got, []string{target}) {
			t.Errorf("batch = %v, want [%s]", got, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no batch delivered")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestBatchDebouncerDeduplicatesAndSorts(t *testing.T) {
	var mu sync.Mutex
	var got [][]string

	b := NewBatchDebouncer(time.Hour, func(paths []string) {
		mu.Lock()
		got = append(got, paths)
		mu.Unlock()
	})
	b.Add("b.cs")
	b.Add("a.cs")
	b.Add("b.cs")

	if n := b.Pending(); n != 2 {
		t.Errorf("Pending() = %d, want 2", n)
	}
	b.Flush()

	mu.Lock()
	defer mu.Unlock()
	want := [][]string{{"a.cs", "b.cs"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("batches = %v, want %v", got, want)
	}
}

func TestBatchDebouncerFiresAfterDelay(t *testing.T) {
	fired := make(chan []string, 1)
	b := NewBatchDebouncer(20*time.Millisecond, func(paths []string) { fired <- paths })
	b.Add("a.cs")

	select {
	case paths := <-fired:
		if !reflect.DeepEqual(paths, []string{"a.cs"}) {
			t.Errorf("paths = %v", paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not fire")
	}
}

func TestBatchDebouncerCancel(t *testing.T) {
	called := false
	b := NewBatchDebouncer(time.Hour, func([]string) { called = true })
	b.Add("a.cs")
	b.Cancel()
	b.Flush()

	if called {
		t.Error("emit called after Cancel")
	}
	if n := b.Pending(); n != 0 {
		t.Errorf("Pending() = %d after Cancel, want 0", n)
	}
}

func TestBatchDebouncerNoEmitWithNoPaths(t *testing.T) {
	called := false
	b := NewBatchDebouncer(time.Millisecond, func([]string) { called = true })
	b.Flush()

	if called {
		t.Error("emit called with no pending paths")
	}
}
