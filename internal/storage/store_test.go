package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestObjectName(t *testing.T) {
	now := time.Unix(1700000000, 0)
	got := ObjectName("user-1", "resume.pdf", now)
	want := "user-1/1700000000-resume.pdf"
	if got != want {
		t.Fatalf("ObjectName = %q, want %q", got, want)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore("http://store")
	ctx := context.Background()

	url, err := store.Upload(ctx, "u/1-a.pdf", "application/pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://store/u/1-a.pdf" {
		t.Fatalf("unexpected url %q", url)
	}

	objects, err := store.List(ctx)
	if err != nil || len(objects) != 1 || objects[0].Name != "u/1-a.pdf" {
		t.Fatalf("unexpected listing: %v %v", objects, err)
	}

	if err := store.Delete(ctx, "u/1-a.pdf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store after delete")
	}
	if err := store.Delete(ctx, "u/1-a.pdf"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}
