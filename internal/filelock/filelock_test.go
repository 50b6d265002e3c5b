package filelock

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// holdLock acquires the lock at path and fails the test if it cannot
func holdLock(t *testing.T, path string) *FileLock {
	t.Helper()
	lock := NewFileLock(path)
	if err := lock.LockContext(context.Background(), 0); err != nil {
		t.Fatalf("LockContext failed: %v", err)
	}
	return lock
}

// lockWithin tries to take the lock at path for at most d
func lockWithin(path string, d time.Duration) (*FileLock, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	lock := NewFileLock(path)
	return lock, lock.LockContext(ctx, 10*time.Millisecond)
}

func TestNewFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}
	if lock.path != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.path)
	}
}

func TestForDir(t *testing.T) {
	dir := t.TempDir()
	lock := ForDir(dir)

	want := filepath.Join(dir, LockFileName)
	if lock.path != want {
		t.Errorf("ForDir path = %s, want %s", lock.path, want)
	}
}

func TestLockUnlock(t *testing.T) {
	lock := holdLock(t, filepath.Join(t.TempDir(), "test.lock"))

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
}

func TestLockIsExclusive(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := holdLock(t, lockPath)

	if _, err := lockWithin(lockPath, 50*time.Millisecond); err == nil {
		t.Error("Second lock should fail while the first is held")
	}

	if err := holder.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	second, err := lockWithin(lockPath, time.Second)
	if err != nil {
		t.Fatalf("Lock should succeed after unlock: %v", err)
	}
	second.Unlock()
}

func TestLockContextTimesOut(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := holdLock(t, lockPath)
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := NewFileLock(lockPath).LockContext(ctx, 10*time.Millisecond)
	if err == nil {
		t.Fatal("Expected LockContext to fail while the lock is held")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestLockContextWaitsForRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	holder := holdLock(t, lockPath)

	go func() {
		time.Sleep(50 * time.Millisecond)
		holder.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	waiter := NewFileLock(lockPath)
	if err := waiter.LockContext(ctx, 0); err != nil {
		t.Fatalf("LockContext failed: %v", err)
	}
	waiter.Unlock()
}

func TestAtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")

	if err := AtomicWrite(path, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if err := AtomicWrite(path, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("AtomicWrite overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"a":2}` {
		t.Errorf("content = %s, want {\"a\":2}", data)
	}
}

func TestAtomicWritePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")

	if err := AtomicWrite(path, []byte("x")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestAtomicWriteNoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()

	if err := AtomicWrite(filepath.Join(dir, "out.txt"), []byte("data")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteCreateDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.txt")

	if err := AtomicWrite(path, []byte("data")); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestAtomicWriteFailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")

	// a directory in the way makes the rename fail
	if err := os.Mkdir(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWrite(target, []byte("data")); err == nil {
		t.Fatal("expected AtomicWrite to fail when target is a non-empty directory")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind after failure: %s", e.Name())
		}
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")

	err := WriteAll(context.Background(), dir,
		File{Name: "summary.json", Data: []byte("{}")},
		File{Name: "report.md", Data: []byte("# Report\n")},
	)
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	for name, want := range map[string]string{"summary.json": "{}", "report.md": "# Report\n"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("ReadFile(%s) failed: %v", name, err)
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", name, data, want)
		}
	}

	// the lock is released afterwards
	lock, err := lockWithin(filepath.Join(dir, LockFileName), time.Second)
	if err != nil {
		t.Fatalf("expected lock to be free after WriteAll: %v", err)
	}
	lock.Unlock()
}

func TestWriteAllConcurrent(t *testing.T) {
	dir := t.TempDir()
	const writers = 8

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			data := []byte(strings.Repeat(string(rune('a'+n)), 4096))
			errs <- WriteAll(context.Background(), dir, File{Name: "summary.json", Data: data})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("WriteAll failed: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) != 4096 || strings.Count(string(data), string(data[0])) != 4096 {
		t.Error("summary.json holds a mix of writers' content")
	}
}
