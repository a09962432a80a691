package file

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLinkCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "url_cache.json")

	cache, err := NewLinkCache(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get("https://forum.example/t/42/1"); ok {
		t.Fatal("empty cache should miss")
	}

	cache.Put("https://forum.example/t/42/1", "https://forum.example/t/slug/42")
	if err := cache.Flush(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewLinkCache(path)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := reopened.Get("https://forum.example/t/42/1")
	if !ok || got != "https://forum.example/t/slug/42" {
		t.Fatalf("expected cached value, got %q (%v)", got, ok)
	}
	if reopened.Len() != 1 {
		t.Errorf("len: got %d", reopened.Len())
	}
}

func TestLinkCacheMissingFileStartsEmpty(t *testing.T) {
	cache, err := NewLinkCache(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Len())
	}
}

func TestLinkCacheMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLinkCache(path); err == nil {
		t.Fatal("expected error for malformed cache file")
	}
}

func TestLinkCacheFlushSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	cache, err := NewLinkCache(path)
	if err != nil {
		t.Fatal(err)
	}

	// Nothing written: no file should appear.
	if err := cache.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("flush of a clean cache should not create the file")
	}
}

func TestLinkCacheCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "cache.json")
	cache, err := NewLinkCache(path)
	if err != nil {
		t.Fatal(err)
	}

	cache.Put("a", "b")
	if err := cache.Flush(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cache file missing: %v", err)
	}
}
