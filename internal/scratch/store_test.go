package scratch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tanmodi/oorja-backend/constants"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSaveUsesOpaqueNameKeepsExtension(t *testing.T) {
	s := testStore(t)
	path, err := s.Save(strings.NewReader("%PDF-1.4 content"), "My March Bill.PDF")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	base := filepath.Base(path)
	if strings.Contains(base, "March") {
		t.Fatalf("scratch name leaks the original filename: %s", base)
	}
	if !strings.HasSuffix(base, ".pdf") {
		t.Fatalf("extension not normalized: %s", base)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "%PDF-1.4 content" {
		t.Fatalf("content = %q err = %v", data, err)
	}
}

func TestSaveEnforcesSizeCap(t *testing.T) {
	s := testStore(t)
	big := strings.NewReader(strings.Repeat("a", int(constants.MaxUploadBytes)+1))
	if _, err := s.Save(big, "huge.pdf"); err == nil {
		t.Fatal("oversize upload must be rejected")
	}
	// The partial file must not be left behind.
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("scratch dir not empty after rejected save: %v", entries)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := testStore(t)
	path, err := s.Save(strings.NewReader("x"), "bill.pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Remove(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("file still present after Remove")
	}
	// Second removal of the same path must not panic or log an error path.
	s.Remove(path)
	s.Remove("")
}
