package common

import (
	"sync"
	"testing"
)

func TestNonceStrictlyIncreasing(t *testing.T) {
	n := NewNonce()
	prev := n.Next()
	for i := 0; i < 1000; i++ {
		next := n.Next()
		if next <= prev {
			t.Fatalf("nonce %d not greater than previous %d", next, prev)
		}
		prev = next
	}
}

func TestNonceConcurrentUnique(t *testing.T) {
	n := NewNonce()

	const workers = 8
	const perWorker = 500

	var mu sync.Mutex
	seen := make(map[int64]bool, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				v := n.Next()
				mu.Lock()
				if seen[v] {
					t.Errorf("duplicate nonce %d", v)
				}
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("got %d unique nonces, want %d", len(seen), workers*perWorker)
	}
}

func TestNonceString(t *testing.T) {
	n := NewNonce()
	s := n.NextString()
	if s == "" {
		t.Fatal("empty nonce string")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Fatalf("nonce string %q contains non-digit", s)
		}
	}
}
