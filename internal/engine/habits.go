package engine

import (
	"math"

	"github.com/google/uuid"
)

// Flat reward applied by habit, subtask and challenge toggles: 10 gold,
// 10 xp, 10 focus minutes.
const unitReward = 10

// ToggleHabit flips the completion mark of a habit for the given date and
// applies (or reverts) the unit reward. Streak moves in lockstep with the
// most recent toggle. An unknown id is a silent no-op.
func (e *Engine) ToggleHabit(id, dateStr string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.findHabitLocked(id)
	if h == nil {
		return
	}
	if h.History == nil {
		h.History = map[string]bool{}
	}

	if h.History[dateStr] {
		delete(h.History, dateStr)
		e.applyDeltaLocked(-unitReward, "Undo: "+h.Name)
		e.addXPLocked(-unitReward)
		e.st.TodayStats.HabitsDone = maxInt(0, e.st.TodayStats.HabitsDone-1)
		e.st.TodayStats.FocusMinutes = maxInt(0, e.st.TodayStats.FocusMinutes-unitReward)
		h.Streak = maxInt(0, h.Streak-1)
	} else {
		h.History[dateStr] = true
		e.applyDeltaLocked(unitReward, "Done: "+h.Name)
		e.addXPLocked(unitReward)
		e.st.TodayStats.HabitsDone++
		e.st.TodayStats.FocusMinutes += unitReward
		h.Streak++
	}

	e.afterMutationLocked()
}

// AddHabit appends a habit; xp defaults to 1.5x the gold reward as in the
// habit editor.
func (e *Engine) AddHabit(name string, reward int) Habit {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := Habit{
		ID:       uuid.NewString(),
		Name:     name,
		Reward:   reward,
		XP:       int(math.Ceil(float64(reward) * 1.5)),
		Duration: reward,
		History:  map[string]bool{},
	}
	e.st.Habits = append(e.st.Habits, h)
	e.st.HabitOrder = append(e.st.HabitOrder, h.ID)
	e.schedulePersistLocked()
	return h
}

// UpdateHabit applies non-zero fields onto the stored habit.
func (e *Engine) UpdateHabit(id string, upd Habit) {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.findHabitLocked(id)
	if h == nil {
		return
	}
	if upd.Name != "" {
		h.Name = upd.Name
	}
	if upd.Reward != 0 {
		h.Reward = upd.Reward
	}
	if upd.XP != 0 {
		h.XP = upd.XP
	}
	if upd.Duration != 0 {
		h.Duration = upd.Duration
	}
	if upd.Reminder != "" {
		h.Reminder = upd.Reminder
	}
	e.schedulePersistLocked()
}

func (e *Engine) DeleteHabit(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.st.Habits {
		if e.st.Habits[i].ID == id {
			e.st.Habits = append(e.st.Habits[:i], e.st.Habits[i+1:]...)
			break
		}
	}
	e.st.HabitOrder = removeString(e.st.HabitOrder, id)
	e.schedulePersistLocked()
}

// ArchiveHabit hides a habit from the active protocol without losing it.
func (e *Engine) ArchiveHabit(id string, archived bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h := e.findHabitLocked(id); h != nil {
		h.Archived = archived
		e.schedulePersistLocked()
	}
}

func (e *Engine) findHabitLocked(id string) *Habit {
	for i := range e.st.Habits {
		if e.st.Habits[i].ID == id {
			return &e.st.Habits[i]
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
