package availability

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"wellportal/services/tokenstore"

	"go.uber.org/zap"
)

// Calendars keeps one Calendar per browser session and practitioner.
type Calendars struct {
	mu      sync.Mutex
	byKey   map[string]*Calendar
	fetcher SlotFetcher
	idle    time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewCalendars(fetcher SlotFetcher, idle time.Duration, logger *zap.Logger) *Calendars {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calendars{
		byKey:   make(map[string]*Calendar),
		fetcher: fetcher,
		idle:    idle,
		now:     time.Now,
		logger:  logger,
	}
}

func calendarKey(sid string, practitionerID int64) string {
	return sid + "/" + strconv.FormatInt(practitionerID, 10)
}

// Get returns the calendar for (sid, practitionerID), creating it on first use.
func (r *Calendars) Get(sid string, store tokenstore.Store, practitionerID int64) *Calendar {
	key := calendarKey(sid, practitionerID)
	r.mu.Lock()
	defer r.mu.Unlock()
	if cal, ok := r.byKey[key]; ok {
		return cal
	}
	cal := NewCalendar(practitionerID, store, r.fetcher, r.now)
	r.byKey[key] = cal
	return cal
}

// Forget drops every calendar of sid.
func (r *Calendars) Forget(sid string) {
	prefix := sid + "/"
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.byKey {
		if strings.HasPrefix(key, prefix) {
			delete(r.byKey, key)
		}
	}
}

// Sweep drops calendars idle for longer than the configured window and
// returns how many went.
func (r *Calendars) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key, cal := range r.byKey {
		if cal.idleSince().Before(cutoff) {
			delete(r.byKey, key)
			n++
		}
	}
	return n
}

func (r *Calendars) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

// Run sweeps every interval until ctx is done.
func (r *Calendars) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("Swept idle calendars", zap.Int("count", n))
			}
		}
	}
}
