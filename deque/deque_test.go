package deque_test

import (
	"context"
	"sync"
	"testing"

	"github.com/xraph/spindle/deque"
	"github.com/xraph/spindle/job"
)

type nopJob struct{}

func (nopJob) Execute(_ context.Context) {}

func newRefs(n int) []*job.Ref {
	refs := make([]*job.Ref, n)
	for i := range refs {
		refs[i] = job.NewRef(nopJob{})
	}
	return refs
}

func TestPop_LIFO(t *testing.T) {
	d := deque.New(8)
	refs := newRefs(3)
	for _, r := range refs {
		d.Push(r)
	}

	// P1,P2,P3 pushed; owner pops P3,P2,P1.
	for i := 2; i >= 0; i-- {
		got, ok := d.Pop()
		if !ok {
			t.Fatalf("pop %d: deque unexpectedly empty", i)
		}
		if got != refs[i] {
			t.Fatalf("pop: got ref %p, want %p", got, refs[i])
		}
	}

	if _, ok := d.Pop(); ok {
		t.Fatal("pop on empty deque must fail")
	}
}

func TestSteal_FIFO(t *testing.T) {
	d := deque.New(8)
	refs := newRefs(3)
	for _, r := range refs {
		d.Push(r)
	}

	// P1,P2,P3 pushed; a thief steals P1,P2,P3.
	for i := 0; i < 3; i++ {
		got, ok := d.Steal()
		if !ok {
			t.Fatalf("steal %d: deque unexpectedly empty", i)
		}
		if got != refs[i] {
			t.Fatalf("steal: got ref %p, want %p", got, refs[i])
		}
	}

	if _, ok := d.Steal(); ok {
		t.Fatal("steal on empty deque must fail")
	}
}

func TestPush_GrowsPastInitialCapacity(t *testing.T) {
	d := deque.New(2)
	refs := newRefs(100)
	for _, r := range refs {
		d.Push(r)
	}

	if d.Len() != 100 {
		t.Fatalf("len %d, want 100", d.Len())
	}

	for i := 99; i >= 0; i-- {
		got, ok := d.Pop()
		if !ok || got != refs[i] {
			t.Fatalf("pop after grow: got (%p, %v), want %p", got, ok, refs[i])
		}
	}
}

// TestNoDoubleDelivery stresses the exactly-once property: one owner
// pushing and popping against several concurrent thieves. Every pushed
// ref must be removed exactly once, either by the owner or by one thief.
func TestNoDoubleDelivery(t *testing.T) {
	const (
		thieves = 4
		total   = 20000
	)

	d := deque.New(8)
	refs := newRefs(total)

	var mu sync.Mutex
	seen := make(map[*job.Ref]int, total)
	record := func(r *job.Ref) {
		mu.Lock()
		seen[r]++
		mu.Unlock()
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < thieves; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if r, ok := d.Steal(); ok {
					record(r)
					continue
				}
				select {
				case <-stop:
					return
				default:
				}
			}
		}()
	}

	// Owner: push everything, interleaving pops.
	for i, r := range refs {
		d.Push(r)
		if i%3 == 0 {
			if got, ok := d.Pop(); ok {
				record(got)
			}
		}
	}
	// Owner drains its own end too.
	for {
		got, ok := d.Pop()
		if !ok {
			break
		}
		record(got)
	}

	close(stop)
	wg.Wait()

	// Anything still sitting in the deque is drained and counted here.
	for {
		got, ok := d.Steal()
		if !ok {
			break
		}
		record(got)
	}

	if len(seen) != total {
		t.Fatalf("delivered %d distinct refs, want %d", len(seen), total)
	}
	for r, n := range seen {
		if n != 1 {
			t.Fatalf("ref %p delivered %d times", r, n)
		}
	}
}
