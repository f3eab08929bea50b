package localfs

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/kirillkom/correspondence-analyzer/internal/core/domain"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, "c-1_email.txt", strings.NewReader("Please send the report.")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := store.Open(ctx, "c-1_email.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	raw, _ := io.ReadAll(rc)
	if string(raw) != "Please send the report." {
		t.Fatalf("unexpected body %q", raw)
	}

	entries, _ := os.ReadDir(store.basePath)
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be cleaned up, got %d entries", len(entries))
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, key := range []string{"", "..", "../etc/passwd", `a\b`} {
		if err := store.Save(context.Background(), key, strings.NewReader("x")); !domain.IsKind(err, domain.ErrInvalidInput) {
			t.Fatalf("Save(%q) expected invalid input, got %v", key, err)
		}
	}
	if _, err := store.Open(context.Background(), "missing.txt"); err == nil {
		t.Fatalf("expected error opening missing file")
	}
}
