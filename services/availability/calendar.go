package availability

import (
	"context"
	"sync"
	"time"

	"wellportal/models"
	"wellportal/services/apiclient"
	"wellportal/services/tokenstore"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// SlotFetcher loads one day of slots.
type SlotFetcher interface {
	FetchSlots(ctx context.Context, store tokenstore.Store, practitionerID int64, date string) ([]string, error)
}

// Calendar is one browser session's date and slot selection for one
// practitioner. Only the response to the latest request is ever applied.
type Calendar struct {
	mu sync.Mutex

	practitionerID int64
	store          tokenstore.Store
	fetcher        SlotFetcher
	now            func() time.Time

	seq        uint64
	date       string
	slots      []string
	loading    bool
	errMsg     string
	selected   *models.Slot
	pendingKey string
	lastUsed   time.Time
}

func NewCalendar(practitionerID int64, store tokenstore.Store, fetcher SlotFetcher, now func() time.Time) *Calendar {
	if now == nil {
		now = time.Now
	}
	return &Calendar{
		practitionerID: practitionerID,
		store:          store,
		fetcher:        fetcher,
		now:            now,
		slots:          []string{},
		lastUsed:       now(),
	}
}

func (c *Calendar) PractitionerID() int64 { return c.practitionerID }

// earliestZone is the last zone on earth to start a new day. A date that is
// already over there is over for every patient.
var earliestZone = time.FixedZone("UTC-12", -12*60*60)

// SelectDate is SelectDateIn without the patient's zone. Only dates that are
// past in every zone are refused; the backend still checks exact ranges.
func (c *Calendar) SelectDate(ctx context.Context, date string) error {
	return c.SelectDateIn(ctx, date, nil)
}

// SelectDateIn switches to date and fetches its slots. Dates before today in
// loc are refused.
func (c *Calendar) SelectDateIn(ctx context.Context, date string, loc *time.Location) error {
	if loc == nil {
		loc = earliestZone
	}
	now := c.now()
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return ErrInvalidDate
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return ErrPastDate
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.date = date
	c.slots = []string{}
	c.selected = nil
	c.pendingKey = ""
	c.loading = true
	c.errMsg = ""
	c.lastUsed = now
	c.mu.Unlock()

	return c.load(ctx, seq, date)
}

// Refresh re-reads the current date. A selection survives only if its time
// is still offered.
func (c *Calendar) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.date == "" {
		c.mu.Unlock()
		return nil
	}
	c.seq++
	seq := c.seq
	date := c.date
	c.loading = true
	c.errMsg = ""
	c.lastUsed = c.now()
	c.mu.Unlock()

	return c.load(ctx, seq, date)
}

func (c *Calendar) load(ctx context.Context, seq uint64, date string) error {
	slots, err := c.fetcher.FetchSlots(ctx, c.store, c.practitionerID, date)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// A newer request owns the view.
		return nil
	}
	c.loading = false
	if err != nil {
		c.slots = []string{}
		c.selected = nil
		c.pendingKey = ""
		c.errMsg = apiclient.MessageOf(err)
		return err
	}
	c.slots = slots
	if c.selected != nil && !contains(slots, c.selected.Time) {
		c.selected = nil
		c.pendingKey = ""
	}
	return nil
}

// SelectSlot picks a time from the current list. Reselecting the same slot
// keeps its pending booking key.
func (c *Calendar) SelectSlot(slotTime string) (models.Slot, error) {
	m, err := parseClock(slotTime)
	if err != nil {
		return models.Slot{}, ErrSlotUnavailable
	}
	slotTime = formatClock(m)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = c.now()
	switch {
	case c.date == "":
		return models.Slot{}, ErrNoDateSelected
	case c.loading:
		return models.Slot{}, ErrSlotsLoading
	case !contains(c.slots, slotTime):
		return models.Slot{}, ErrSlotUnavailable
	}

	slot := models.Slot{Date: c.date, Time: slotTime}
	if c.selected == nil || *c.selected != slot {
		c.selected = &slot
		c.pendingKey = uuid.NewString()
	}
	return slot, nil
}

// Selection returns the selected slot and its pending booking key.
func (c *Calendar) Selection() (models.Slot, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return models.Slot{}, ""
	}
	return *c.selected, c.pendingKey
}

func (c *Calendar) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.pendingKey = ""
	c.mu.Unlock()
}

// View snapshots the calendar for rendering.
func (c *Calendar) View() models.CalendarView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := models.CalendarView{
		PractitionerID: c.practitionerID,
		Date:           c.date,
		Slots:          append([]string{}, c.slots...),
		Loading:        c.loading,
		Error:          c.errMsg,
		PendingKey:     c.pendingKey,
	}
	if c.selected != nil {
		s := *c.selected
		v.Selected = &s
	}
	return v
}

func (c *Calendar) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
