package aggregates

import (
	"context"
	"sort"
	"sync"
)

// ItemLocker serializes stock read-check-decrement per catalog item inside
// this process. Locks are taken in ascending id order, so two requests over
// overlapping item sets cannot deadlock. Row locks in the database cover
// other processes.
type ItemLocker struct {
	mu    sync.Mutex
	slots map[int64]*itemSlot
}

type itemSlot struct {
	ch   chan struct{}
	refs int
}

func NewItemLocker() *ItemLocker {
	return &ItemLocker{slots: map[int64]*itemSlot{}}
}

// Lock acquires every id in ids. The returned func releases them and is safe
// to call once. On ctx cancellation the ids already taken are released.
func (l *ItemLocker) Lock(ctx context.Context, ids []int64) (func(), error) {
	if l == nil || len(ids) == 0 {
		return func() {}, nil
	}
	keys := uniqueSorted(ids)
	held := make([]int64, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			l.unlock(held[i])
		}
		held = held[:0]
	}
	for _, id := range keys {
		slot := l.acquireRef(id)
		select {
		case slot.ch <- struct{}{}:
			held = append(held, id)
		case <-ctx.Done():
			l.dropRef(id)
			release()
			return func() {}, ctx.Err()
		}
	}
	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (l *ItemLocker) acquireRef(id int64) *itemSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[id]
	if !ok {
		s = &itemSlot{ch: make(chan struct{}, 1)}
		l.slots[id] = s
	}
	s.refs++
	return s
}

func (l *ItemLocker) dropRef(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.slots[id]; ok {
		s.refs--
		if s.refs <= 0 {
			delete(l.slots, id)
		}
	}
}

func (l *ItemLocker) unlock(id int64) {
	l.mu.Lock()
	s, ok := l.slots[id]
	l.mu.Unlock()
	if !ok {
		return
	}
	<-s.ch
	l.dropRef(id)
}

func (l *ItemLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
