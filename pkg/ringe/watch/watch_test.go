package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sambeau/ringe/pkg/ringe/export"
	"github.com/sambeau/ringe/pkg/ringe/lexer"
	"github.com/sambeau/ringe/pkg/ringe/ringe"
)

// syncBuffer is a bytes.Buffer safe for the event loop goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestWatcher(t *testing.T, opts Options) (*Watcher, *syncBuffer, *syncBuffer) {
	t.Helper()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	if opts.Extensions == nil {
		opts.Extensions = []string{".c", ".H"}
	}
	w, err := New(nil, opts, stdout, stderr)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, stdout, stderr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestHandleFileChange(t *testing.T) {
	dir := t.TempDir()
	w, stdout, stderr := newTestWatcher(t, Options{})

	good := filepath.Join(dir, "good.c")
	writeFile(t, good, "int main(void) { return 0; }")
	w.handleFileChange(context.Background(), good)

	if !strings.Contains(stdout.String(), "[WATCH] "+good+": 10 tokens") {
		t.Errorf("expected token summary, got %q", stdout.String())
	}

	bad := filepath.Join(dir, "bad.h")
	writeFile(t, bad, "int x = @;")
	w.handleFileChange(context.Background(), bad)

	if !strings.Contains(stdout.String(), bad+": 3 tokens, 1 errors") {
		t.Errorf("expected error summary, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Lexical error [LEX-0001]") {
		t.Errorf("expected diagnostic on stderr, got %q", stderr.String())
	}

	if w.Scans() != 2 {
		t.Errorf("expected 2 scans, got %d", w.Scans())
	}
}

func TestHandleFileChangeIgnored(t *testing.T) {
	dir := t.TempDir()
	w, stdout, _ := newTestWatcher(t, Options{})

	for _, name := range []string{"notes.txt", ".hidden.c", "Makefile"} {
		path := filepath.Join(dir, name)
		writeFile(t, path, "x")
		w.handleFileChange(context.Background(), path)
	}

	if stdout.Len() != 0 || w.Scans() != 0 {
		t.Errorf("expected no scans, got %q", stdout.String())
	}
}

func TestHandleFileChangeMissing(t *testing.T) {
	w, _, stderr := newTestWatcher(t, Options{})
	w.handleFileChange(context.Background(), filepath.Join(t.TempDir(), "gone.c"))

	if !strings.Contains(stderr.String(), "[WATCH ERROR]") {
		t.Errorf("expected error log, got %q", stderr.String())
	}
}

func TestHandleFileChangeIndexes(t *testing.T) {
	idx, err := export.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()

	w, _, _ := newTestWatcher(t, Options{
		Index: idx,
		Scan:  ringe.Options{ErrorMode: lexer.Resync},
	})

	path := filepath.Join(t.TempDir(), "i.c")
	writeFile(t, path, "a @ b")
	w.handleFileChange(context.Background(), path)

	if n, err := idx.Count(context.Background(), path); err != nil || n != 2 {
		t.Errorf("expected 2 indexed tokens, got %d (%v)", n, err)
	}
	if n, err := idx.ErrorCount(context.Background(), path); err != nil || n != 1 {
		t.Errorf("expected 1 indexed error, got %d (%v)", n, err)
	}
}

func TestSettle(t *testing.T) {
	w, _, _ := newTestWatcher(t, Options{Debounce: 100 * time.Millisecond})
	now := time.Now()

	if !w.settle("a.c", now) {
		t.Error("first event should scan")
	}
	if w.settle("a.c", now.Add(50*time.Millisecond)) {
		t.Error("event inside the debounce window should be dropped")
	}
	if !w.settle("b.c", now.Add(50*time.Millisecond)) {
		t.Error("other files are debounced separately")
	}
	if !w.settle("a.c", now.Add(200*time.Millisecond)) {
		t.Error("event after the window should scan")
	}
}

func TestWatchDirRecursive(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src/lib", ".git/objects"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}

	w, _, _ := newTestWatcher(t, Options{})
	if err := w.watchDirRecursive(root); err != nil {
		t.Fatalf("watchDirRecursive failed: %v", err)
	}

	list := w.watcher.WatchList()
	has := func(p string) bool {
		for _, l := range list {
			if l == p {
				return true
			}
		}
		return false
	}
	if !has(root) || !has(filepath.Join(root, "src", "lib")) {
		t.Errorf("expected source dirs to be watched, got %v", list)
	}
	if has(filepath.Join(root, ".git")) {
		t.Errorf("hidden dirs should be skipped, got %v", list)
	}

	file := filepath.Join(root, "f.c")
	writeFile(t, file, "")
	if err := w.watchDirRecursive(file); err == nil {
		t.Error("expected error for a file root")
	}
}

func TestStartNoDirs(t *testing.T) {
	w, _, stderr := newTestWatcher(t, Options{})
	w.dirs = []string{filepath.Join(t.TempDir(), "missing")}

	if err := w.Start(context.Background()); err == nil {
		t.Error("expected error when nothing can be watched")
	}
	if !strings.Contains(stderr.String(), "failed to watch") {
		t.Errorf("expected watch error, got %q", stderr.String())
	}
}

func TestStartRescansOnWrite(t *testing.T) {
	dir := t.TempDir()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	w, err := New([]string{dir}, Options{Extensions: []string{".c"}, Debounce: 10 * time.Millisecond}, stdout, stderr)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	path := filepath.Join(dir, "live.c")
	writeFile(t, path, "x;")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(stdout.String(), "[WATCH] "+path+":") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("no rescan reported; stdout %q stderr %q", stdout.String(), stderr.String())
}
