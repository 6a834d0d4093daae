package idgen

import (
	"sync"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestULIDGenerator_Generate(t *testing.T) {
	g := NewULIDGenerator()

	a, b := g.Generate(), g.Generate()
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}

	for _, id := range []string{a, b} {
		if _, err := ulid.ParseStrict(id); err != nil {
			t.Fatalf("expected valid ULID, got %q: %v", id, err)
		}
	}

	if a > b {
		t.Fatalf("expected monotonic ids, got %s after %s", b, a)
	}
}

func TestULIDGenerator_ConcurrentUnique(t *testing.T) {
	g := NewULIDGenerator()

	const workers, perWorker = 8, 200
	ids := make(chan string, workers*perWorker)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				ids <- g.Generate()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
