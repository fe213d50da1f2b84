package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRoundTripThroughDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := Open(path, 0)
	m.SetFileState("/tmp/a.txt", FileState{CursorRow: 3, CursorCol: 7})
	m.SetLastSearch("needle")
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	m2 := Open(path, 0)
	defer m2.Stop()
	state, ok := m2.FileState("/tmp/a.txt")
	if !ok || state.CursorRow != 3 || state.CursorCol != 7 {
		t.Fatalf("FileState = %+v, %v", state, ok)
	}
	if got := m2.ActiveFile(); got != "/tmp/a.txt" {
		t.Fatalf("ActiveFile = %q, want /tmp/a.txt", got)
	}
	if got := m2.LastSearch(); got != "needle" {
		t.Fatalf("LastSearch = %q, want needle", got)
	}
}

func TestSaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := Open(path, 0)
	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("clean Save wrote %s (stat err %v)", path, err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}

func TestCorruptSessionStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := Open(path, 0)
	defer m.Stop()
	if _, ok := m.FileState("/x"); ok {
		t.Fatalf("corrupt session produced state")
	}
	m.SetFileState("/x", FileState{})
}

func TestAutosave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := Open(path, 10*time.Millisecond)
	defer m.Stop()
	m.SetLastSearch("q")

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("autosave never wrote %s", path)
}

func TestPathUsesStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	got, err := Path()
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if want := filepath.Join(dir, "qpad", "session.json"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
}
