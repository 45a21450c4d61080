package crawler

import (
	"fmt"
	"sync"
	"testing"
)

// TestFrontier tests the queue and dedup semantics.
func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("pops in FIFO order", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a", "b", "c")

		for _, want := range []string{"a", "b", "c"} {
			got, ok := f.Pop()
			if !ok {
				t.Fatalf("expected a URL, frontier reported empty")
			}
			if got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		}
		if _, ok := f.Pop(); ok {
			t.Error("expected the frontier to be empty")
		}
	})

	t.Run("never enqueues a URL twice", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a")

		if added := f.PushAll([]string{"a", "b", "b", "c"}); added != 2 {
			t.Errorf("expected 2 new URLs, got %d", added)
		}
		if got := f.Len(); got != 3 {
			t.Errorf("expected 3 pending URLs, got %d", got)
		}

		// A popped URL stays seen forever.
		f.Pop()
		if added := f.PushAll([]string{"a"}); added != 0 {
			t.Errorf("expected re-push of a popped URL to add 0, got %d", added)
		}
	})

	t.Run("preserves input order among newly added", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier()
		f.PushAll([]string{"x", "y"})
		f.PushAll([]string{"y", "z", "x", "w"})

		var got []string
		for {
			u, ok := f.Pop()
			if !ok {
				break
			}
			got = append(got, u)
		}

		want := []string{"x", "y", "z", "w"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
			}
		}
	})

	t.Run("counts seen URLs across pops", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a", "b")
		f.Pop()
		f.Pop()
		f.PushAll([]string{"c"})

		if got := f.SeenCount(); got != 3 {
			t.Errorf("expected 3 seen URLs, got %d", got)
		}
		if got := f.Len(); got != 1 {
			t.Errorf("expected 1 pending URL, got %d", got)
		}
	})

	t.Run("deduplicates seed URLs", func(t *testing.T) {
		t.Parallel()

		f := NewFrontier("a", "a", "b")
		if got := f.Len(); got != 2 {
			t.Errorf("expected 2 pending URLs, got %d", got)
		}
	})
}

// TestFrontierConcurrent tests that concurrent pushers cannot double-add.
func TestFrontierConcurrent(t *testing.T) {
	t.Parallel()

	f := NewFrontier()

	// Every goroutine pushes the same 50 URLs; each must be added once.
	urls := make([]string, 50)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://wiki.example.test/wiki/Page_%d", i)
	}

	var wg sync.WaitGroup
	total := make(chan int, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			total <- f.PushAll(urls)
		}()
	}
	wg.Wait()
	close(total)

	sum := 0
	for n := range total {
		sum += n
	}
	if sum != len(urls) {
		t.Errorf("expected %d total additions across all pushers, got %d", len(urls), sum)
	}
	if got := f.SeenCount(); got != len(urls) {
		t.Errorf("expected %d seen URLs, got %d", len(urls), got)
	}
	if got := f.Len(); got != len(urls) {
		t.Errorf("expected %d pending URLs, got %d", len(urls), got)
	}
}
