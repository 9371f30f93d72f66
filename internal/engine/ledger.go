package engine

import (
	"github.com/google/uuid"
)

// ReasonManualAdjust marks a balance correction that must not pollute the
// daily earnings/spending statistics.
const ReasonManualAdjust = "manual adjustment"

// ApplyDelta mutates the balance through the ledger: it appends a bounded
// transaction and books the amount into today's earnings or spending.
// Balance has no floor; callers decide whether overdrawing is acceptable.
func (e *Engine) ApplyDelta(amount int, reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applyDeltaLocked(amount, reason)
	e.afterMutationLocked()
}

func (e *Engine) applyDeltaLocked(amount int, reason string) {
	e.st.Balance += amount

	tx := Transaction{
		ID:     uuid.NewString(),
		Time:   e.clock.Now().Format("15:04"),
		Desc:   reason,
		Amount: amount,
	}
	e.st.Transactions = append([]Transaction{tx}, e.st.Transactions...)
	if len(e.st.Transactions) > maxTransactions {
		e.st.Transactions = e.st.Transactions[:maxTransactions]
	}

	if reason == ReasonManualAdjust {
		return
	}
	if amount > 0 {
		e.st.TodayStats.Earnings += amount
	} else {
		e.st.TodayStats.Spending -= amount
	}
}

// AddXP adjusts experience, flooring at zero.
func (e *Engine) AddXP(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.addXPLocked(delta)
	e.afterMutationLocked()
}

func (e *Engine) addXPLocked(delta int) {
	e.st.XP += delta
	if e.st.XP < 0 {
		e.st.XP = 0
	}
}

// CompletePomodoro books a finished focus block of m minutes.
func (e *Engine) CompletePomodoro(minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applyDeltaLocked(minutes, "Focus reward")
	e.st.TodayStats.FocusMinutes += minutes
	e.addXPLocked(minutes * 2)
	e.afterMutationLocked()
}

// CompleteTask books a one-off task completion.
func (e *Engine) CompleteTask(title string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applyDeltaLocked(50, "Task done: "+title)
	e.st.TodayStats.TasksCompleted++
	e.afterMutationLocked()
}

// SetGoals updates the weekly and daily goal lines; empty strings leave the
// stored goal untouched.
func (e *Engine) SetGoals(weekly, today string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if weekly != "" {
		e.st.WeeklyGoal = weekly
	}
	if today != "" {
		e.st.TodayGoal = today
	}
	e.schedulePersistLocked()
}

// SaveReview appends a retrospective log entry.
func (e *Engine) SaveReview(content string) Review {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	r := Review{
		ID:        uuid.NewString(),
		Date:      now.Format(DateFormat),
		Content:   content,
		Timestamp: now.UnixMilli(),
	}
	e.st.Reviews = append(e.st.Reviews, r)
	e.schedulePersistLocked()
	return r
}
