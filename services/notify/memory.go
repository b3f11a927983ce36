package notify

import (
	"context"
	"sync"
	"time"

	"wellportal/models"
)

// DefaultCapacity bounds pending notices per session; the oldest go first.
const DefaultCapacity = 50

// MemoryBox is an in-process Box. An inbox nobody drains is dropped ttl after
// its last push, like the Redis list it stands in for.
type MemoryBox struct {
	mu       sync.Mutex
	pending  map[string]*inbox
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

type inbox struct {
	notices  []models.Notice
	lastPush time.Time
}

// NewMemoryBox creates a box holding up to capacity notices per session. A
// zero ttl keeps inboxes until they are drained.
func NewMemoryBox(capacity int, ttl time.Duration) *MemoryBox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryBox{
		pending:  make(map[string]*inbox),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (b *MemoryBox) expired(in *inbox, now time.Time) bool {
	return b.ttl > 0 && now.Sub(in.lastPush) >= b.ttl
}

func (b *MemoryBox) Push(_ context.Context, sid string, n models.Notice) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	in, ok := b.pending[sid]
	if !ok || b.expired(in, now) {
		in = &inbox{}
		b.pending[sid] = in
	}
	in.notices = append(in.notices, n)
	if len(in.notices) > b.capacity {
		in.notices = in.notices[len(in.notices)-b.capacity:]
	}
	in.lastPush = now
	return nil
}

func (b *MemoryBox) Drain(_ context.Context, sid string) ([]models.Notice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	in, ok := b.pending[sid]
	if !ok {
		return nil, nil
	}
	delete(b.pending, sid)
	if b.expired(in, b.now()) {
		return nil, nil
	}
	return in.notices, nil
}

func (b *MemoryBox) Forget(_ context.Context, sid string) error {
	b.mu.Lock()
	delete(b.pending, sid)
	b.mu.Unlock()
	return nil
}

// Sweep drops expired inboxes and returns how many went.
func (b *MemoryBox) Sweep() int {
	now := b.now()
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for sid, in := range b.pending {
		if b.expired(in, now) {
			delete(b.pending, sid)
			n++
		}
	}
	return n
}

func (b *MemoryBox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Run sweeps every interval until ctx is done.
func (b *MemoryBox) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Sweep()
		}
	}
}
