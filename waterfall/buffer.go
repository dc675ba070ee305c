package waterfall

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chzchzchz/gnuwaterfall/radio"
)

var ErrNonMonotonic = errors.New("timestamp not after newest entry")

// Entry is one retained strip. Seq orders entries; Time is only compared
// against the retention horizon.
type Entry struct {
	Seq   uint64
	Time  float64
	Strip Strip
}

// Buffer is the rolling, time-indexed history of rendered strips. It owns
// every strip it holds and releases each one exactly once, on eviction or Close.
type Buffer struct {
	alloc Allocator

	mu       sync.Mutex
	entries  []Entry // ascending Seq and Time
	nextSeq  uint64
	released uint64
}

func NewBuffer(alloc Allocator) *Buffer {
	return &Buffer{alloc: alloc}
}

// Append renders s as the strip for [now-dt, now] and stores it.
func (b *Buffer) Append(now, dt float64, s radio.Spectrum) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n := len(b.entries); n > 0 && now <= b.entries[n-1].Time {
		return Entry{}, fmt.Errorf("%w: %g <= %g", ErrNonMonotonic, now, b.entries[n-1].Time)
	}
	g, err := BuildGeometry(now, dt, s)
	if err != nil {
		return Entry{}, err
	}
	strip, err := b.alloc.NewStrip(g)
	if err != nil {
		return Entry{}, fmt.Errorf("allocating strip: %w", err)
	}
	e := Entry{Seq: b.nextSeq, Time: now, Strip: strip}
	b.nextSeq++
	b.entries = append(b.entries, e)
	return e, nil
}

// Evict releases every entry older than now-horizon and returns how many went.
func (b *Buffer) Evict(now, horizon float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	cutoff := now - horizon
	n := 0
	for n < len(b.entries) && b.entries[n].Time < cutoff {
		b.entries[n].Strip.Release()
		b.entries[n].Strip = nil
		n++
	}
	if n == 0 {
		return 0
	}
	b.entries = append(b.entries[:0], b.entries[n:]...)
	b.released += uint64(n)
	return n
}

// DrawAll visits retained entries oldest first.
func (b *Buffer) DrawAll(fn func(Entry) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, e := range b.entries {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Released counts strips given back to the allocator.
func (b *Buffer) Released() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

// Oldest returns the timestamp of the oldest retained entry.
func (b *Buffer) Oldest() (float64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return 0, false
	}
	return b.entries[0].Time, true
}

// Close releases everything still held.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.entries {
		b.entries[i].Strip.Release()
		b.entries[i].Strip = nil
	}
	b.released += uint64(len(b.entries))
	b.entries = nil
}
