package models

import "time"

// DayOfWeek uses the backend's upper-case weekday names.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var weekdays = map[time.Weekday]DayOfWeek{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// DayOf maps a calendar date onto the availability weekday.
func DayOf(t time.Time) DayOfWeek {
	return weekdays[t.Weekday()]
}

// Valid reports whether d names a weekday.
func (d DayOfWeek) Valid() bool {
	for _, w := range weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// SlotDurations are the durations (minutes) a practitioner may pick.
var SlotDurations = []int{30, 45, 60, 90}

// DefaultSlotDuration is applied when a window is saved without one.
const DefaultSlotDuration = 60

// AvailabilityWindow is one practitioner's recurring hours for one weekday.
// StartTime and EndTime are local wall-clock "HH:MM".
type AvailabilityWindow struct {
	ID             int64     `json:"id,omitempty"`
	PractitionerID int64     `json:"practitionerId,omitempty"`
	DayOfWeek      DayOfWeek `json:"dayOfWeek"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	SlotDuration   int       `json:"slotDuration"`
	IsAvailable    *bool     `json:"isAvailable,omitempty"`
}

// Available treats an unset flag as available, like the backend default.
func (w AvailabilityWindow) Available() bool {
	return w.IsAvailable == nil || *w.IsAvailable
}

// BookedInterval is an already-booked [Start, End) range on one day, "HH:MM".
type BookedInterval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slot is a bookable (date, time) pair. It is a point-in-time query result.
type Slot struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM
}

// IsZero reports whether no slot is selected.
func (s Slot) IsZero() bool {
	return s.Date == "" || s.Time == ""
}

// CalendarView is the snapshot of one calendar the portal renders.
type CalendarView struct {
	PractitionerID int64    `json:"practitionerId"`
	Date           string   `json:"date,omitempty"`
	Slots          []string `json:"slots"`
	Loading        bool     `json:"loading"`
	Error          string   `json:"error,omitempty"`
	Selected       *Slot    `json:"selected,omitempty"`
	PendingKey     string   `json:"pendingKey,omitempty"`
}
