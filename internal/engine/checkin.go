package engine

import (
	"fmt"
	"math"
)

// checkinRewards is the gold payout for each day of the weekly cycle,
// indexed by streak modulo 7 before the increment.
var checkinRewards = []int{20, 30, 40, 50, 60, 80, 150}

// CheckinResult reports one successful daily check-in.
type CheckinResult struct {
	Gold   int
	XP     int
	Streak int
}

// CheckIn books today's check-in. Only one check-in per calendar day is
// allowed; a missed day (last check-in neither today nor yesterday) breaks
// the streak back to zero before counting today.
func (e *Engine) CheckIn() (CheckinResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	today := now.Format(DateFormat)
	if e.st.LastCheckinDate == today {
		return CheckinResult{}, fmt.Errorf("already checked in on %s", today)
	}

	yesterday := now.AddDate(0, 0, -1).Format(DateFormat)
	if e.st.LastCheckinDate != yesterday {
		e.st.CheckinStreak = 0
	}

	gold := checkinRewards[e.st.CheckinStreak%len(checkinRewards)]
	xp := int(math.Floor(float64(gold) * 1.5))

	e.st.CheckinStreak++
	e.st.LastCheckinDate = today
	if e.st.WeeklyCheckin == nil {
		e.st.WeeklyCheckin = map[string]bool{}
	}
	e.st.WeeklyCheckin[today] = true

	e.applyDeltaLocked(gold, "Daily check-in")
	e.addXPLocked(xp)
	e.afterMutationLocked()

	return CheckinResult{Gold: gold, XP: xp, Streak: e.st.CheckinStreak}, nil
}
