package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/padbind/padbind/internal/event/topic"
	"github.com/padbind/padbind/internal/log"
)

type countingPublisher struct {
	mu      sync.Mutex
	reloads int
	other   int
}

func (p *countingPublisher) Publish(t topic.Topic, _ any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t == topic.Reload {
		p.reloads++
	} else {
		p.other++
	}
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloads
}

func waitForCount(t *testing.T, p *countingPublisher, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if p.count() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("reloads = %d, want at least %d", p.count(), want)
}

func newTestWatcher(t *testing.T, dir string, bus Publisher) *Watcher {
	t.Helper()
	w, err := New(func() string { return dir }, bus, log.Discard(),
		WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestDefinitionChangeTriggersReload(t *testing.T) {
	dir := t.TempDir()
	bus := &countingPublisher{}
	newTestWatcher(t, dir, bus)

	if err := os.WriteFile(filepath.Join(dir, "2.txt"), []byte("return 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForCount(t, bus, 1)
}

func TestUnrelatedFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	bus := &countingPublisher{}
	newTestWatcher(t, dir, bus)

	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if bus.count() != 0 {
		t.Errorf("reloads = %d, want 0", bus.count())
	}
}

func TestBurstDebouncesToOneReload(t *testing.T) {
	dir := t.TempDir()
	bus := &countingPublisher{}
	newTestWatcher(t, dir, bus)

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(filepath.Join(dir, "2.txt"), []byte("return 1"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	waitForCount(t, bus, 1)
	time.Sleep(100 * time.Millisecond)
	if got := bus.count(); got != 1 {
		t.Errorf("reloads = %d, want 1 after debounce", got)
	}
}

func TestRemovalTriggersReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2.txt")
	if err := os.WriteFile(path, []byte("return 1"), 0o644); err != nil {
		t.Fatal(err)
	}
	bus := &countingPublisher{}
	newTestWatcher(t, dir, bus)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitForCount(t, bus, 1)
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(func() string { return dir }, &countingPublisher{}, log.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	_ = w.Close()
}
