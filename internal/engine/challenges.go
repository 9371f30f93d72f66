package engine

// drawChallengesLocked reshuffles the daily challenge selection: three
// entries drawn without replacement via a uniform shuffle.
func (e *Engine) drawChallengesLocked(dateStr string) {
	pool := e.st.ChallengePool
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := dailyChallengeCnt
	if n > len(shuffled) {
		n = len(shuffled)
	}
	e.st.TodaysChallenges = Challenges{Date: dateStr, Tasks: shuffled[:n]}

	if e.st.CompletedRandomTasks == nil {
		e.st.CompletedRandomTasks = map[string][]string{}
	}
	if _, ok := e.st.CompletedRandomTasks[dateStr]; !ok {
		e.st.CompletedRandomTasks[dateStr] = []string{}
	}
}

// EnsureTodaysChallenges draws a fresh selection when the stored one is for
// another day. Called on boot after hydration.
func (e *Engine) EnsureTodaysChallenges() {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.Now().Format(DateFormat)
	if e.st.TodaysChallenges.Date != today {
		e.drawChallengesLocked(today)
		e.schedulePersistLocked()
	}
}

// ToggleChallenge flips today's completion mark for a challenge and applies
// (or reverts) the unit reward.
func (e *Engine) ToggleChallenge(task string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	today := e.clock.Now().Format(DateFormat)
	if e.st.CompletedRandomTasks == nil {
		e.st.CompletedRandomTasks = map[string][]string{}
	}
	done := e.st.CompletedRandomTasks[today]

	if containsString(done, task) {
		e.st.CompletedRandomTasks[today] = removeString(done, task)
		e.applyDeltaLocked(-unitReward, "Challenge undone: "+task)
		e.addXPLocked(-unitReward)
		e.st.TodayStats.TasksCompleted = maxInt(0, e.st.TodayStats.TasksCompleted-1)
		e.st.TodayStats.FocusMinutes = maxInt(0, e.st.TodayStats.FocusMinutes-unitReward)
	} else {
		e.st.CompletedRandomTasks[today] = append(done, task)
		e.applyDeltaLocked(unitReward, "Challenge done: "+task)
		e.addXPLocked(unitReward)
		e.st.TodayStats.TasksCompleted++
		e.st.TodayStats.FocusMinutes += unitReward
	}

	e.afterMutationLocked()
}

// SetChallengePool replaces the configured pool; the current day's selection
// is kept until the next draw.
func (e *Engine) SetChallengePool(pool []string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.st.ChallengePool = pool
	e.schedulePersistLocked()
}
