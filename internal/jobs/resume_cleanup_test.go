package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"mockmate/internal/storage"
)

type fakeStore struct {
	mu      sync.Mutex
	objects []storage.ObjectInfo
	deleted []string
	listErr error
	delErr  error
}

func (f *fakeStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return f.PublicURL(name), nil
}

func (f *fakeStore) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	return f.objects, f.listErr
}

func (f *fakeStore) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func (f *fakeStore) PublicURL(name string) string { return "http://store/" + name }

type fakeReferences struct {
	urls map[string]bool
	err  error
}

func (f fakeReferences) ReferencedResumeURLs() (map[string]bool, error) { return f.urls, f.err }

func newCleanupJob(store *fakeStore, refs fakeReferences) *ResumeCleanupJob {
	return NewResumeCleanupJob(store, refs, &ResumeCleanupConfig{Schedule: "@hourly", Enabled: true}, zap.NewNop())
}

func TestRunCleanupDeletesOnlyOldOrphans(t *testing.T) {
	old := time.Now().Add(-2 * time.Hour)
	fresh := time.Now().Add(-time.Minute)
	store := &fakeStore{objects: []storage.ObjectInfo{
		{Name: "u/1-orphan.pdf", CreatedAt: old},
		{Name: "u/2-referenced.pdf", CreatedAt: old},
		{Name: "u/3-fresh.pdf", CreatedAt: fresh},
	}}
	refs := fakeReferences{urls: map[string]bool{"http://store/u/2-referenced.pdf": true}}

	if err := newCleanupJob(store, refs).RunCleanup(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.deleted) != 1 || store.deleted[0] != "u/1-orphan.pdf" {
		t.Fatalf("unexpected deletions: %v", store.deleted)
	}
}

func TestRunCleanupPropagatesListingErrors(t *testing.T) {
	store := &fakeStore{listErr: errors.New("bucket down")}
	refs := fakeReferences{urls: map[string]bool{}}

	if err := newCleanupJob(store, refs).RunCleanup(context.Background()); err == nil {
		t.Fatalf("expected error")
	}

	refStore := &fakeStore{}
	badRefs := fakeReferences{err: errors.New("db down")}
	if err := newCleanupJob(refStore, badRefs).RunCleanup(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRunCleanupContinuesPastDeleteFailures(t *testing.T) {
	old := time.Now().Add(-2 * time.Hour)
	store := &fakeStore{
		objects: []storage.ObjectInfo{{Name: "u/1-a.pdf", CreatedAt: old}},
		delErr:  errors.New("permission denied"),
	}
	refs := fakeReferences{urls: map[string]bool{}}

	if err := newCleanupJob(store, refs).RunCleanup(context.Background()); err != nil {
		t.Fatalf("delete failures must not abort the sweep: %v", err)
	}
}

func TestStartIsNoOpWhenDisabled(t *testing.T) {
	job := NewResumeCleanupJob(&fakeStore{}, fakeReferences{}, &ResumeCleanupConfig{Enabled: false}, zap.NewNop())
	if err := job.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	job.Stop()
}
