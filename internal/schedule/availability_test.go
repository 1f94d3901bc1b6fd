package schedule

import (
	"context"
	"testing"
	"time"
)

func slotAt(t *testing.T, slots []Slot, hour, min int) Slot {
	t.Helper()
	for _, s := range slots {
		if s.Start.Hour() == hour && s.Start.Minute() == min {
			return s
		}
	}
	t.Fatalf("no slot at %02d:%02d", hour, min)
	return Slot{}
}

func TestSlotsForDate(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	sched, _ := testScheduler(t, testExperts[:1], now)

	tenAM := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	if _, err := sched.CheckAvailabilityAndSchedule(context.Background(), Request{
		ClientID: "client-1", ClientName: "Asha", StartTime: tenAM,
	}); err != nil {
		t.Fatalf("booking 10:00: %v", err)
	}

	slots, err := sched.SlotsForDate(tenAM, DefaultWindow)
	if err != nil {
		t.Fatalf("SlotsForDate: %v", err)
	}

	// 10:00 through 18:15 at 15-minute steps.
	if len(slots) != 34 {
		t.Fatalf("got %d slots, want 34", len(slots))
	}
	if !slots[0].Start.Equal(tenAM) {
		t.Errorf("first slot = %v, want 10:00", slots[0].Start)
	}
	last := slots[len(slots)-1]
	if last.Start.Hour() != 18 || last.Start.Minute() != 15 {
		t.Errorf("last slot = %v, want 18:15", last.Start)
	}

	// The 10:00 meeting blocks the single expert until 11:00.
	for _, tc := range []struct {
		hour, min int
		booked    int
		disabled  bool
	}{
		{10, 0, 1, true},
		{10, 45, 1, true},
		{11, 0, 0, false},
		{14, 30, 0, false},
	} {
		s := slotAt(t, slots, tc.hour, tc.min)
		if s.BookedCount != tc.booked || s.Disabled != tc.disabled {
			t.Errorf("slot %02d:%02d = booked %d disabled %v, want %d/%v",
				tc.hour, tc.min, s.BookedCount, s.Disabled, tc.booked, tc.disabled)
		}
	}
}

func TestSlotsDisablePastStarts(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 5, 0, 0, time.UTC)
	sched, _ := testScheduler(t, testExperts, now)

	slots, err := sched.SlotsForDate(now, DefaultWindow)
	if err != nil {
		t.Fatalf("SlotsForDate: %v", err)
	}

	if s := slotAt(t, slots, 12, 0); !s.Disabled {
		t.Error("12:00 slot enabled at 12:05")
	}
	if s := slotAt(t, slots, 12, 15); s.Disabled {
		t.Error("12:15 slot disabled at 12:05")
	}
}

func TestSlotsCountDistinctExperts(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	sched, _ := testScheduler(t, testExperts, now)

	start := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)
	for _, client := range []string{"client-1", "client-2"} {
		if _, err := sched.CheckAvailabilityAndSchedule(context.Background(), Request{
			ClientID: client, ClientName: client, StartTime: start,
		}); err != nil {
			t.Fatalf("booking for %s: %v", client, err)
		}
	}

	slots, err := sched.SlotsForDate(start, DefaultWindow)
	if err != nil {
		t.Fatalf("SlotsForDate: %v", err)
	}

	s := slotAt(t, slots, 14, 0)
	if s.BookedCount != 2 {
		t.Errorf("booked count = %d, want 2", s.BookedCount)
	}
	if !s.Disabled {
		t.Error("fully booked slot not disabled")
	}
	if free := slotAt(t, slots, 15, 0); free.Disabled || free.BookedCount != 0 {
		t.Errorf("15:00 slot = %+v, want free", free)
	}
}

func TestSlotsRejectInvalidWindow(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	sched, _ := testScheduler(t, testExperts, now)

	if _, err := sched.SlotsForDate(now, Window{OpenHour: 19, CloseHour: 10}); err == nil {
		t.Error("inverted window accepted")
	}
}
