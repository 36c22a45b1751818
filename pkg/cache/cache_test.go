package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestKey(t *testing.T) {
	k1 := Key("svg", "digraph a {}")
	k2 := Key("svg", "digraph a {}")
	k3 := Key("svg", "digraph b {}")
	k4 := Key("dot", "digraph a {}")

	if k1 != k2 {
		t.Error("Key should be deterministic")
	}
	if k1 == k3 || k1 == k4 {
		t.Error("different input or format should change the key")
	}
	if len(Hash([]byte("x"))) != 64 {
		t.Errorf("Hash length = %d, want 64", len(Hash([]byte("x"))))
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	var c NullCache

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || ok || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

// backends returns each persistent backend driven by a fake clock.
func backends(t *testing.T) map[string]func(*clock) Cache {
	return map[string]func(*clock) Cache{
		"file": func(clk *clock) Cache {
			c, err := NewFileCache(t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			c.now = clk.now
			return c
		},
		"memory": func(clk *clock) Cache {
			c := NewMemory(8)
			c.now = clk.now
			return c
		},
	}
}

func TestBackends(t *testing.T) {
	ctx := context.Background()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			clk := &clock{t: time.Unix(1000, 0)}
			c := open(clk)
			defer c.Close()

			if _, ok, _ := c.Get(ctx, "svg:a"); ok {
				t.Fatal("empty cache should miss")
			}
			if err := c.Set(ctx, "svg:a", []byte("<svg/>"), time.Minute); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, ok, err := c.Get(ctx, "svg:a")
			if err != nil || !ok || string(data) != "<svg/>" {
				t.Fatalf("Get = %q, %v, %v", data, ok, err)
			}

			if err := c.Set(ctx, "svg:a", []byte("<svg></svg>"), 0); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			clk.advance(time.Hour)
			if data, ok, _ := c.Get(ctx, "svg:a"); !ok || string(data) != "<svg></svg>" {
				t.Errorf("entry without ttl should not expire, got %q %v", data, ok)
			}

			if err := c.Set(ctx, "svg:b", []byte("b"), time.Second); err != nil {
				t.Fatal(err)
			}
			clk.advance(2 * time.Second)
			if _, ok, _ := c.Get(ctx, "svg:b"); ok {
				t.Error("expired entry should miss")
			}

			if err := c.Delete(ctx, "svg:a"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := c.Get(ctx, "svg:a"); ok {
				t.Error("deleted entry should miss")
			}
			if err := c.Delete(ctx, "svg:a"); err != nil {
				t.Errorf("deleting a missing key: %v", err)
			}
		})
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("corrupt entry: ok=%v err=%v, want clean miss", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
	if filepath.Dir(filepath.Dir(path)) != c.dir {
		t.Errorf("entry %s should sit one level below %s", path, c.dir)
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	_ = m.Set(ctx, "a", []byte("a"), 0)
	_ = m.Set(ctx, "b", []byte("b"), 0)
	_, _, _ = m.Get(ctx, "a")
	_ = m.Set(ctx, "c", []byte("c"), 0)

	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Error("b was least recently used and should be evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok, _ := m.Get(ctx, k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}

	_ = m.Close()
	if m.Len() != 0 {
		t.Errorf("Len after Close = %d", m.Len())
	}
}

func TestNewMemoryDefaultSize(t *testing.T) {
	if m := NewMemory(0); m.max != DefaultMemoryEntries {
		t.Errorf("max = %d, want %d", m.max, DefaultMemoryEntries)
	}
}

func TestNewRedisBadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "http://not-redis"); err == nil {
		t.Error("expected an error for a non-redis URL")
	}
}

// TestRedis runs against a live server named by PENGUIN_TEST_REDIS.
func TestRedis(t *testing.T) {
	url := os.Getenv("PENGUIN_TEST_REDIS")
	if url == "" {
		t.Skip("PENGUIN_TEST_REDIS not set")
	}
	ctx := context.Background()
	r, err := NewRedis(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	key := Key("svg", t.Name())
	if err := r.Set(ctx, key, []byte("<svg/>"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, ok, err := r.Get(ctx, key)
	if err != nil || !ok || string(data) != "<svg/>" {
		t.Fatalf("Get = %q, %v, %v", data, ok, err)
	}
	if err := r.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := r.Get(ctx, key); ok {
		t.Error("deleted entry should miss")
	}
}
