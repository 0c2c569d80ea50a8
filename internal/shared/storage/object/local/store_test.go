package local

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestPutAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.Put(ctx, "reports/2026/01/s1/abc_report.pdf", "application/pdf", strings.NewReader("%PDF-1.3"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes written, got %d", n)
	}

	rc, err := store.Open(ctx, "reports/2026/01/s1/abc_report.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "%PDF-1.3" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestPutOverwrites(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	if _, err := store.Put(ctx, "a.pdf", "application/pdf", strings.NewReader("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Put(ctx, "a.pdf", "application/pdf", strings.NewReader("second")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	rc, err := store.Open(ctx, "a.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "second" {
		t.Fatalf("expected overwrite, got %q", body)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	if _, err := store.Put(ctx, "../escape.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected error for traversal key")
	}
	if _, err := store.Open(ctx, "/etc/passwd"); err == nil {
		t.Fatalf("expected error for absolute key")
	}
}

func TestCanceledContext(t *testing.T) {
	store := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, "a.pdf", "application/pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected context error")
	}
}
