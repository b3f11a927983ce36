package availability

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"wellportal/models"
)

const clockLayout = "15:04"

// parseClock reads "HH:MM" (or "HH:MM:SS") as minutes after midnight.
func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) > 5 && s[5] == ':' {
		s = s[:5]
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidDuration reports whether minutes is an offered slot length.
func ValidDuration(minutes int) bool {
	for _, d := range models.SlotDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// GenerateSlots walks [start, end) in slot-sized steps and keeps every slot
// that fits entirely before end and overlaps no booked interval. It returns
// an empty list for an unavailable or malformed window.
func GenerateSlots(w models.AvailabilityWindow, booked []models.BookedInterval) []string {
	slots := []string{}
	if !w.Available() || !ValidDuration(w.SlotDuration) {
		return slots
	}
	start, err := parseClock(w.StartTime)
	if err != nil {
		return slots
	}
	end, err := parseClock(w.EndTime)
	if err != nil || start >= end {
		return slots
	}

	type interval struct{ start, end int }
	busy := make([]interval, 0, len(booked))
	for _, b := range booked {
		bs, err1 := parseClock(b.Start)
		be, err2 := parseClock(b.End)
		if err1 != nil || err2 != nil {
			continue
		}
		busy = append(busy, interval{bs, be})
	}

	for cur := start; cur+w.SlotDuration <= end; cur += w.SlotDuration {
		slotEnd := cur + w.SlotDuration
		taken := false
		for _, b := range busy {
			if b.start < slotEnd && b.end > cur {
				taken = true
				break
			}
		}
		if !taken {
			slots = append(slots, formatClock(cur))
		}
	}
	return slots
}

// NormalizeSlots trims backend times to HH:MM, drops unparseable entries,
// then sorts and de-duplicates.
func NormalizeSlots(raw []string) []string {
	seen := make(map[int]struct{}, len(raw))
	minutes := make([]int, 0, len(raw))
	for _, r := range raw {
		m, err := parseClock(r)
		if err != nil {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	out := make([]string, len(minutes))
	for i, m := range minutes {
		out[i] = formatClock(m)
	}
	return out
}
