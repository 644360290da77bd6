package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credentials.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return store, path
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()

	if !store.Get(ctx).Anonymous() {
		t.Fatal("fresh store must be anonymous")
	}

	want := Credentials{AccessToken: "acc-1", RefreshToken: "ref-1"}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := store.Get(ctx); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()

	want := Credentials{AccessToken: "acc-1", RefreshToken: "ref-1"}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if got := reopened.Get(ctx); got != want {
		t.Fatalf("expected persisted %+v, got %+v", want, got)
	}
}

func TestFileStoreCorruptFileIsAnonymous(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()

	if err := os.WriteFile(path, []byte("not-json{"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("corrupt file must read as anonymous")
	}
}

func TestFileStoreClearIdempotent(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear of absent file failed: %v", err)
	}

	if err := store.Set(ctx, Credentials{AccessToken: "acc"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Clear must remove the credential file")
	}
	if !store.Get(ctx).Anonymous() {
		t.Fatal("cleared store must be anonymous")
	}
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "credentials.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := store.Set(context.Background(), Credentials{AccessToken: "acc"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func TestFileStoreFilePermissions(t *testing.T) {
	store, path := newFileStore(t)
	if err := store.Set(context.Background(), Credentials{AccessToken: "acc"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("credential file must be 0600, got %o", perm)
	}
}

func TestFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
