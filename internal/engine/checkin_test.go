package engine

import (
	"testing"
	"time"
)

func TestCheckinOncePerDay(t *testing.T) {
	eng, _ := newTestEngine(t)

	res, err := eng.CheckIn()
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if res.Gold != 20 || res.XP != 30 || res.Streak != 1 {
		t.Fatalf("result=%+v, want 20 gold / 30 xp / streak 1", res)
	}

	if _, err := eng.CheckIn(); err == nil {
		t.Fatalf("expected second check-in on the same day to fail")
	}

	st := eng.Snapshot()
	if st.Balance != 1250+20 {
		t.Fatalf("balance=%d, want %d", st.Balance, 1250+20)
	}
	if !st.WeeklyCheckin[testStart.Format(DateFormat)] {
		t.Fatalf("weekly map missing today's mark: %v", st.WeeklyCheckin)
	}
}

func TestCheckinWeeklyRewardCycle(t *testing.T) {
	eng, clock := newTestEngine(t)

	want := []int{20, 30, 40, 50, 60, 80, 150, 20}
	for i, w := range want {
		res, err := eng.CheckIn()
		if err != nil {
			t.Fatalf("checkin #%d: %v", i+1, err)
		}
		if res.Gold != w {
			t.Fatalf("day %d gold=%d, want %d", i+1, res.Gold, w)
		}
		if res.Streak != i+1 {
			t.Fatalf("day %d streak=%d, want %d", i+1, res.Streak, i+1)
		}
		clock.Advance(24 * time.Hour)
	}
}

func TestCheckinStreakBreaksAfterMissedDay(t *testing.T) {
	eng, clock := newTestEngine(t)

	for i := 0; i < 3; i++ {
		if _, err := eng.CheckIn(); err != nil {
			t.Fatalf("checkin #%d: %v", i+1, err)
		}
		clock.Advance(24 * time.Hour)
	}

	// Skip a day entirely.
	clock.Advance(24 * time.Hour)

	res, err := eng.CheckIn()
	if err != nil {
		t.Fatalf("checkin after gap: %v", err)
	}
	if res.Streak != 1 {
		t.Fatalf("streak=%d after gap, want reset to 1", res.Streak)
	}
	if res.Gold != 20 {
		t.Fatalf("gold=%d after gap, want back to 20", res.Gold)
	}
}
