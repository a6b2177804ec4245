// Package deque implements the per-worker Chase–Lev work-stealing deque.
//
// The owner pushes and pops at the bottom (LIFO); any other worker steals
// from the top (FIFO). All arbitration between a popping owner and
// concurrent thieves happens through a single CAS on top, with no locks. Each
// pushed ref is removed by exactly one caller.
//
// The ring grows on demand: the owner copies live slots into a buffer of
// twice the size and publishes it atomically. Old rings are never written
// again, so a thief holding a stale ring still reads valid values for any
// index its CAS can win.
package deque

import (
	"sync/atomic"

	"github.com/xraph/spindle/job"
)

const cacheLineSize = 64

// ring is an immutable-capacity circular buffer. Slot i lives at
// slots[i&mask]; capacity is always a power of two.
type ring struct {
	slots []atomic.Pointer[job.Ref]
	mask  int64
}

func newRing(capacity int64) *ring {
	return &ring{
		slots: make([]atomic.Pointer[job.Ref], capacity),
		mask:  capacity - 1,
	}
}

func (r *ring) load(i int64) *job.Ref { return r.slots[i&r.mask].Load() }

func (r *ring) store(i int64, j *job.Ref) { r.slots[i&r.mask].Store(j) }

func (r *ring) capacity() int64 { return r.mask + 1 }

// Deque is a double-ended queue of job refs owned by one worker.
// Push and Pop may be called only by the owner; Steal by anyone else.
// Padding keeps top and bottom on separate cache lines so thieves
// hammering top do not invalidate the owner's line.
type Deque struct {
	top    atomic.Int64
	_      [cacheLineSize - 8]byte
	bottom atomic.Int64
	_      [cacheLineSize - 8]byte
	buf    atomic.Pointer[ring]
}

// New creates a deque with at least the requested initial capacity,
// rounded up to a power of two.
func New(capacity int) *Deque {
	if capacity < 2 {
		capacity = 2
	}
	c := int64(2)
	for c < int64(capacity) {
		c <<= 1
	}
	d := &Deque{}
	d.buf.Store(newRing(c))
	return d
}

// Push appends a ref at the owner's end. Owner-only.
func (d *Deque) Push(ref *job.Ref) {
	b := d.bottom.Load()
	t := d.top.Load()
	r := d.buf.Load()
	if b-t >= r.capacity() {
		r = d.grow(r, t, b)
	}
	r.store(b, ref)
	d.bottom.Store(b + 1)
}

// Pop removes and returns the most recently pushed ref. Owner-only.
// When the deque holds a single element, a CAS on top arbitrates against
// concurrent thieves so at most one side wins the slot.
func (d *Deque) Pop() (*job.Ref, bool) {
	b := d.bottom.Load() - 1
	r := d.buf.Load()
	d.bottom.Store(b)

	t := d.top.Load()
	if t > b {
		// Empty: restore bottom.
		d.bottom.Store(b + 1)
		return nil, false
	}

	ref := r.load(b)
	if t == b {
		// Last element: race thieves for it.
		if !d.top.CompareAndSwap(t, t+1) {
			// A thief got there first.
			d.bottom.Store(b + 1)
			return nil, false
		}
		d.bottom.Store(b + 1)
	}
	return ref, true
}

// Steal removes and returns the least recently pushed ref. Called by
// workers other than the owner. A false return means the deque looked
// empty or the caller lost a race; callers treat both as "nothing to
// steal right now".
func (d *Deque) Steal() (*job.Ref, bool) {
	t := d.top.Load()
	b := d.bottom.Load()
	if t >= b {
		return nil, false
	}
	r := d.buf.Load()
	ref := r.load(t)
	if !d.top.CompareAndSwap(t, t+1) {
		return nil, false
	}
	return ref, true
}

// Len reports the number of refs currently in the deque. Advisory only:
// it can be stale the moment it returns.
func (d *Deque) Len() int {
	n := d.bottom.Load() - d.top.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}

// grow publishes a ring of twice the capacity containing the live slots
// [t, b). Owner-only; old rings remain readable by stale thieves.
func (d *Deque) grow(old *ring, t, b int64) *ring {
	bigger := newRing(old.capacity() * 2)
	for i := t; i < b; i++ {
		bigger.store(i, old.load(i))
	}
	d.buf.Store(bigger)
	return bigger
}
