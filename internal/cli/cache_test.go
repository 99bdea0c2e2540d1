package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sankey/pkg/cache"
)

func TestCachePath(t *testing.T) {
	dir := isolateCache(t)
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(out)
	if !strings.HasPrefix(got, dir) || filepath.Base(got) != appName {
		t.Errorf("cache path = %q, want %s under %q", got, appName, dir)
	}
}

func TestCacheClear(t *testing.T) {
	isolateCache(t)

	out, err := execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on missing dir = %q", out)
	}

	dir, err := cache.DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, key := range []string{"layout:a", "layout:b", "artifact:c"} {
		if err := fc.Set(ctx, key, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out, err = execute(t, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 3 cached entries") {
		t.Errorf("clear output = %q", out)
	}
	if _, ok, _ := fc.Get(ctx, "layout:a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestNewCache(t *testing.T) {
	isolateCache(t)

	c, err := newCache(true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("newCache(true) = %T, want NullCache", c)
	}

	c, err = newCache(false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("newCache(false) = %T, want *FileCache", c)
	}
}
