package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// storeContract runs the behaviour every backend must share.
func storeContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		s := newStore(t)
		if _, ok, err := s.Get(ctx, "k"); err != nil || ok {
			t.Fatalf("Get on empty store = ok %v, err %v; want miss", ok, err)
		}
		if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
		got, ok, err := s.Get(ctx, "k")
		if err != nil || !ok {
			t.Fatalf("Get after Set = ok %v, err %v", ok, err)
		}
		if string(got) != "v" {
			t.Errorf("Get = %q, want %q", got, "v")
		}
	})

	t.Run("invalidate drops only tagged keys", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "folder:b:1", FolderTag("b", "1"), FoldersTag("b"))
		mustSet(t, s, "folder:b:2", FolderTag("b", "2"))
		mustSet(t, s, "folders:b", FoldersTag("b"))

		n, err := s.Invalidate(ctx, FolderTag("b", "1"))
		if err != nil {
			t.Fatalf("Invalidate: %v", err)
		}
		if n != 1 {
			t.Errorf("Invalidate dropped %d keys, want 1", n)
		}
		assertMiss(t, s, "folder:b:1")
		assertHit(t, s, "folder:b:2")
		assertHit(t, s, "folders:b")
	})

	t.Run("one key under several tags", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "folder:b:1", FolderTag("b", "1"), ResumesTag("b", "1"))

		if _, err := s.Invalidate(ctx, ResumesTag("b", "1")); err != nil {
			t.Fatalf("Invalidate: %v", err)
		}
		assertMiss(t, s, "folder:b:1")
	})

	t.Run("delete and reset", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, "a")
		mustSet(t, s, "b")
		if err := s.Delete(ctx, "a"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		assertMiss(t, s, "a")
		assertHit(t, s, "b")

		if err := s.Reset(ctx); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		assertMiss(t, s, "b")
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		s, err := NewMemoryStore(DefaultMemoryConfig())
		if err != nil {
			t.Fatalf("NewMemoryStore: %v", err)
		}
		t.Cleanup(s.Close)
		return s
	})
}

func TestRedisStore(t *testing.T) {
	storeContract(t, func(t *testing.T) Store {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedisStoreFromClient(client, "test:")
	})
}

func TestRedisStore_TTLAndPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	s := NewRedisStoreFromClient(client, "rb:")
	if err := s.Set(ctx, "banks", []byte("[]"), 600*time.Second, BanksTag()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mr.Set("other:key", "x"); err != nil {
		t.Fatalf("seed foreign key: %v", err)
	}

	if !mr.Exists("rb:banks") {
		t.Fatal("value not stored under prefix")
	}
	if !mr.Exists("rb:tag:banks") {
		t.Fatal("tag set not stored under prefix")
	}
	if ttl := mr.TTL("rb:banks"); ttl != 600*time.Second {
		t.Errorf("TTL = %v, want 600s", ttl)
	}

	mr.FastForward(601 * time.Second)
	if _, ok, _ := s.Get(ctx, "banks"); ok {
		t.Error("value still present after ttl")
	}

	if err := s.Set(ctx, "banks", []byte("[]"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !mr.Exists("other:key") {
		t.Error("Reset removed a key outside the prefix")
	}
}

func TestMemoryStore_IndexDoesNotOutliveValues(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryStore(DefaultMemoryConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	t.Run("miss forgets evicted key", func(t *testing.T) {
		mustSet(t, s, "bank:1", BankTag("1"), BanksTag())
		// drop the value behind the index's back, as an eviction would
		s.cache.Del("bank:1")
		assertMiss(t, s, "bank:1")
		if keys, tags := s.indexed(); keys != 0 || tags != 0 {
			t.Errorf("index holds %d keys, %d tags after miss; want empty", keys, tags)
		}
	})

	t.Run("sweep forgets expired keys", func(t *testing.T) {
		if err := s.Set(ctx, "short", []byte("x"), time.Second, BankTag("status")); err != nil {
			t.Fatal(err)
		}
		mustSet(t, s, "long", BanksTag())

		s.mu.Lock()
		s.sweep(time.Now().Add(2 * time.Second))
		s.mu.Unlock()

		if keys, tags := s.indexed(); keys != 1 || tags != 1 {
			t.Errorf("index holds %d keys, %d tags; want only the unexpired one", keys, tags)
		}
	})

	t.Run("re-set replaces tags", func(t *testing.T) {
		if err := s.Reset(ctx); err != nil {
			t.Fatal(err)
		}
		mustSet(t, s, "folder:b:1", FolderTag("b", "1"))
		mustSet(t, s, "folder:b:1", FolderTag("b", "2"))
		if n, _ := s.Invalidate(ctx, FolderTag("b", "1")); n != 0 {
			t.Errorf("stale tag dropped %d keys, want 0", n)
		}
		assertHit(t, s, "folder:b:1")
	})

	t.Run("sweep runs from set", func(t *testing.T) {
		if err := s.Reset(ctx); err != nil {
			t.Fatal(err)
		}
		clock := time.Now()
		s.now = func() time.Time { return clock }
		defer func() { s.now = time.Now }()

		if err := s.Set(ctx, "short", []byte("x"), time.Second, BankTag("status")); err != nil {
			t.Fatal(err)
		}
		clock = clock.Add(sweepInterval + time.Second)
		mustSet(t, s, "other")

		if keys, _ := s.indexed(); keys != 1 {
			t.Errorf("index holds %d keys, want 1 after sweep", keys)
		}
	})
}

func TestRedisStore_InvalidateIsOneServerCall(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedisStoreFromClient(client, "rb:")

	// load the script so the measured call is a plain EVALSHA
	if _, err := s.Invalidate(ctx, BanksTag()); err != nil {
		t.Fatalf("warm Invalidate: %v", err)
	}

	mustSet(t, s, "folder:b:1", FolderTag("b", "1"), FoldersTag("b"))
	mustSet(t, s, "folders:b", FoldersTag("b"))

	before := mr.CommandCount()
	n, err := s.Invalidate(ctx, FolderTag("b", "1"), FoldersTag("b"))
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if calls := mr.CommandCount() - before; calls != 1 {
		t.Errorf("Invalidate issued %d commands, want 1", calls)
	}
	if n != 2 {
		t.Errorf("Invalidate dropped %d keys, want 2 distinct", n)
	}
	for _, key := range []string{"rb:folder:b:1", "rb:folders:b", "rb:tag:" + string(FoldersTag("b"))} {
		if mr.Exists(key) {
			t.Errorf("%s survived invalidation", key)
		}
	}
}

func mustSet(t *testing.T, s Store, key string, tags ...Tag) {
	t.Helper()
	if err := s.Set(context.Background(), key, []byte(key), time.Minute, tags...); err != nil {
		t.Fatalf("Set(%s): %v", key, err)
	}
}

func assertHit(t *testing.T, s Store, key string) {
	t.Helper()
	if _, ok, err := s.Get(context.Background(), key); err != nil || !ok {
		t.Errorf("Get(%s) = ok %v, err %v; want hit", key, ok, err)
	}
}

func assertMiss(t *testing.T, s Store, key string) {
	t.Helper()
	if _, ok, err := s.Get(context.Background(), key); err != nil || ok {
		t.Errorf("Get(%s) = ok %v, err %v; want miss", key, ok, err)
	}
}

// failingStore errors on every call and counts them
type failingStore struct {
	mu    sync.Mutex
	calls int
}

var errBackendDown = errors.New("backend down")

func (f *failingStore) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *failingStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *failingStore) Get(context.Context, string) ([]byte, bool, error) {
	f.hit()
	return nil, false, errBackendDown
}

func (f *failingStore) Set(context.Context, string, []byte, time.Duration, ...Tag) error {
	f.hit()
	return errBackendDown
}

func (f *failingStore) Delete(context.Context, ...string) error {
	f.hit()
	return errBackendDown
}

func (f *failingStore) Invalidate(context.Context, ...Tag) (int, error) {
	f.hit()
	return 0, errBackendDown
}

func (f *failingStore) Reset(context.Context) error {
	f.hit()
	return errBackendDown
}
