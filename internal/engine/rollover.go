package engine

import (
	"time"

	"go.uber.org/zap"
)

// There are two reset paths with different blast radii, inherited from the
// shipped behavior:
//
//   - the session reset, run by hydration when the stored lastLoginDate is
//     not today: subtasks incomplete, todayStats zeroed, givenUpTasks
//     cleared — habit history, streaks, balance, xp and dice counters are
//     left alone;
//   - the full rollover, run by the midnight scheduler: everything above
//     plus the destructive erasure of all habit history and streaks and a
//     fresh challenge draw.
//
// The history erasure wipes multi-day data and is kept as an explicit,
// separately named operation rather than being silently folded into (or
// silently dropped from) the daily reset.

// StartRolloverScheduler arms a one-shot timer for the next local midnight;
// on fire it runs the full rollover and re-arms for 24 hours later.
func (e *Engine) StartRolloverScheduler() {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := msUntilNextMidnight(e.clock.Now())
	e.rolloverTimer = e.clock.AfterFunc(d, e.rolloverFired)
	e.log.Info("rollover scheduler armed", zap.Duration("until_midnight", d))
}

func (e *Engine) rolloverFired() {
	e.Rollover()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rolloverTimer = e.clock.AfterFunc(24*time.Hour, e.rolloverFired)
}

func msUntilNextMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return next.Sub(now)
}

// Rollover performs the full daily reset of all time-scoped entities.
func (e *Engine) Rollover() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	today := now.Format(DateFormat)
	e.log.Info("daily rollover", zap.String("date", today))

	e.eraseHabitHistoriesLocked()

	for i := range e.st.Projects {
		p := &e.st.Projects[i]
		for j := range p.SubTasks {
			p.SubTasks[j].Completed = false
			p.SubTasks[j].GivenUp = false
		}
		p.Status = ProjectActive
	}

	e.st.GivenUpTasks = []string{}

	// Seal the finished day before zeroing, then advance. Firing exactly at
	// midnight leaves the elapsed time a fraction short of a full day, so
	// the calendar math alone would not move Day forward.
	e.st.StatsHistory[e.st.Day] = e.st.TodayStats
	e.st.TodayStats = DailyStats{}
	e.st.Day = maxInt(dayNumber(e.st.StartDate, now), e.st.Day+1)
	e.st.LastLoginDate = today

	e.drawChallengesLocked(today)

	e.st.Dice.TodayCount = 0
	e.st.Dice.LastClickDate = today
	e.st.Dice.PendingTasks = []DiceRecord{}
	e.st.Dice.CompletedTasks = []DiceRecord{}

	e.afterMutationLocked()
}

// eraseHabitHistoriesLocked wipes every habit's full completion history and
// zeroes its streak. This destroys multi-day data, not just today's marks;
// it exists only on the scheduler path.
func (e *Engine) eraseHabitHistoriesLocked() {
	for i := range e.st.Habits {
		e.st.Habits[i].History = map[string]bool{}
		e.st.Habits[i].Streak = 0
	}
}

// sessionResetLocked is the gentler boot-time reset applied when hydration
// detects a new day: only session-scoped fields are touched.
func (e *Engine) sessionResetLocked() {
	for i := range e.st.Projects {
		p := &e.st.Projects[i]
		for j := range p.SubTasks {
			p.SubTasks[j].Completed = false
			p.SubTasks[j].GivenUp = false
		}
	}
	e.st.TodayStats = DailyStats{}
	e.st.GivenUpTasks = []string{}
}

// dayNumber is 1-based: the day the journey started is day 1.
func dayNumber(start, now time.Time) int {
	if start.IsZero() {
		return 1
	}
	return int(now.Sub(start)/(24*time.Hour)) + 1
}
