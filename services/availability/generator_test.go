package availability

import (
	"reflect"
	"testing"

	"wellportal/models"
)

func window(start, end string, duration int) models.AvailabilityWindow {
	return models.AvailabilityWindow{DayOfWeek: models.Friday, StartTime: start, EndTime: end, SlotDuration: duration}
}

func TestGenerateSlots(t *testing.T) {
	off := false
	closed := window("09:00", "11:00", 60)
	closed.IsAvailable = &off

	cases := []struct {
		name   string
		window models.AvailabilityWindow
		booked []models.BookedInterval
		want   []string
	}{
		{"two hourly slots", window("09:00", "11:00", 60), nil, []string{"09:00", "10:00"}},
		{"partial tail dropped", window("09:00", "10:45", 30), nil, []string{"09:00", "09:30", "10:00"}},
		{"exact fit 90", window("08:00", "11:00", 90), nil, []string{"08:00", "09:30"}},
		{"booked slot removed", window("09:00", "12:00", 60), []models.BookedInterval{{Start: "10:00", End: "11:00"}}, []string{"09:00", "11:00"}},
		{"overlapping booking removes both", window("09:00", "11:00", 60), []models.BookedInterval{{Start: "09:30", End: "10:30"}}, []string{}},
		{"touching booking keeps neighbours", window("09:00", "11:00", 30), []models.BookedInterval{{Start: "09:30", End: "10:00"}}, []string{"09:00", "10:00", "10:30"}},
		{"backend seconds accepted", window("09:00:00", "10:00:00", 30), nil, []string{"09:00", "09:30"}},
		{"unavailable", closed, nil, []string{}},
		{"bad duration", window("09:00", "11:00", 20), nil, []string{}},
		{"start after end", window("11:00", "09:00", 60), nil, []string{}},
		{"window shorter than slot", window("09:00", "09:30", 60), nil, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := GenerateSlots(tc.window, tc.booked)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("GenerateSlots = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeSlots(t *testing.T) {
	got := NormalizeSlots([]string{"10:00:00", "09:00", "10:00", " 08:30 ", "bogus", "25:00"})
	want := []string{"08:30", "09:00", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeSlots = %v, want %v", got, want)
	}
	if got := NormalizeSlots(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil input should give an empty list, got %#v", got)
	}
}

func TestNormalizeWindow(t *testing.T) {
	w, err := NormalizeWindow(models.AvailabilityWindow{DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "17:00"})
	if err != nil {
		t.Fatalf("NormalizeWindow: %v", err)
	}
	if w.SlotDuration != models.DefaultSlotDuration || !w.Available() || w.IsAvailable == nil {
		t.Fatalf("defaults not applied: %+v", w)
	}

	bad := map[string]models.AvailabilityWindow{
		"dayOfWeek":    {DayOfWeek: "FUNDAY", StartTime: "09:00", EndTime: "10:00"},
		"startTime":    {DayOfWeek: models.Monday, StartTime: "9am", EndTime: "10:00"},
		"endTime":      {DayOfWeek: models.Monday, StartTime: "10:00", EndTime: "10:00"},
		"slotDuration": {DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "10:00", SlotDuration: 25},
	}
	for field, w := range bad {
		_, err := NormalizeWindow(w)
		verr, ok := err.(*ValidationError)
		if !ok || verr.Field != field {
			t.Errorf("%s: got %v", field, err)
		}
	}
}
