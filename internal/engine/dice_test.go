package engine

import (
	"strings"
	"testing"
	"time"
)

func spinAndCommit(t *testing.T, eng *Engine, clock *fakeClock) SpinOutcome {
	t.Helper()
	out := eng.SpinDice()
	if !out.Success {
		t.Fatalf("spin refused: %s", out.Message)
	}
	clock.Advance(DefaultConfig().SpinDelay + time.Millisecond)
	return out
}

func TestSpinCommitsOnlyAfterWindow(t *testing.T) {
	eng, clock := newTestEngine(t)

	out := eng.SpinDice()
	if !out.Success || out.Result == nil {
		t.Fatalf("expected a successful spin, got %+v", out)
	}

	st := eng.Snapshot()
	if st.Dice.CurrentResult != nil {
		t.Fatalf("result committed before the spin window elapsed")
	}
	if st.Dice.TodayCount != 0 {
		t.Fatalf("todayCount=%d before commit, want 0", st.Dice.TodayCount)
	}
	if err := eng.HandleDiceResult(OutcomeSkipped); err == nil {
		t.Fatalf("expected resolve to fail before commit")
	}

	clock.Advance(DefaultConfig().SpinDelay + time.Millisecond)

	st = eng.Snapshot()
	if st.Dice.CurrentResult == nil {
		t.Fatalf("expected committed result after the spin window")
	}
	if st.Dice.TodayCount != 1 {
		t.Fatalf("todayCount=%d after commit, want 1", st.Dice.TodayCount)
	}
	if st.Dice.CurrentResult.Task.ID != out.Result.Task.ID {
		t.Fatalf("committed task %q, want %q", st.Dice.CurrentResult.Task.ID, out.Result.Task.ID)
	}
}

func TestSpinBusyGuard(t *testing.T) {
	eng, clock := newTestEngine(t)

	if out := eng.SpinDice(); !out.Success {
		t.Fatalf("first spin refused: %s", out.Message)
	}
	if out := eng.SpinDice(); out.Success {
		t.Fatalf("expected busy refusal while a spin is in flight")
	}

	clock.Advance(DefaultConfig().SpinDelay + time.Millisecond)

	// Still blocked: the committed result awaits resolution.
	if out := eng.SpinDice(); out.Success {
		t.Fatalf("expected busy refusal while a result awaits resolution")
	}

	if err := eng.HandleDiceResult(OutcomeSkipped); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out := eng.SpinDice(); !out.Success {
		t.Fatalf("spin after resolution refused: %s", out.Message)
	}
}

func TestSpinDailyLimit(t *testing.T) {
	eng, clock := newTestEngine(t)

	for i := 0; i < 3; i++ {
		spinAndCommit(t, eng, clock)
		if err := eng.HandleDiceResult(OutcomeSkipped); err != nil {
			t.Fatalf("resolve #%d: %v", i+1, err)
		}
	}

	out := eng.SpinDice()
	if out.Success {
		t.Fatalf("expected refusal after 3 spins")
	}
	if !strings.Contains(out.Message, "3") {
		t.Fatalf("refusal message %q should name the limit", out.Message)
	}

	// A new day resets the counter.
	clock.Advance(24 * time.Hour)
	if out := eng.SpinDice(); !out.Success {
		t.Fatalf("spin on a new day refused: %s", out.Message)
	}
}

func TestCompletedOutcomePaysFrozenReward(t *testing.T) {
	eng, clock := newTestEngine(t)
	before := eng.Snapshot()

	out := spinAndCommit(t, eng, clock)
	if err := eng.HandleDiceResult(OutcomeCompleted); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	st := eng.Snapshot()
	if st.Balance != before.Balance+out.Result.Gold {
		t.Fatalf("balance=%d, want %d", st.Balance, before.Balance+out.Result.Gold)
	}
	if st.XP != before.XP+out.Result.XP {
		t.Fatalf("xp=%d, want %d", st.XP, before.XP+out.Result.XP)
	}
	if st.TodayStats.TasksCompleted != 1 {
		t.Fatalf("tasksCompleted=%d, want 1", st.TodayStats.TasksCompleted)
	}
	if len(st.Dice.History) != 1 || st.Dice.History[0].Outcome != OutcomeCompleted {
		t.Fatalf("history=%+v, want one completed entry", st.Dice.History)
	}
	if st.Dice.CurrentResult != nil {
		t.Fatalf("currentResult not cleared after resolution")
	}
}

func TestLaterThenCompletePaysOnce(t *testing.T) {
	eng, clock := newTestEngine(t)
	before := eng.Snapshot().Balance

	out := spinAndCommit(t, eng, clock)
	if err := eng.HandleDiceResult(OutcomeLater); err != nil {
		t.Fatalf("resolve later: %v", err)
	}

	st := eng.Snapshot()
	if st.Balance != before {
		t.Fatalf("balance=%d after defer, want unchanged %d", st.Balance, before)
	}
	if len(st.Dice.PendingTasks) != 1 {
		t.Fatalf("pending=%d, want 1", len(st.Dice.PendingTasks))
	}

	if err := eng.CompletePendingDiceTask(out.Result.Task.ID); err != nil {
		t.Fatalf("complete pending: %v", err)
	}
	st = eng.Snapshot()
	if st.Balance != before+out.Result.Gold {
		t.Fatalf("balance=%d, want %d", st.Balance, before+out.Result.Gold)
	}
	if len(st.Dice.PendingTasks) != 0 {
		t.Fatalf("pending not drained: %+v", st.Dice.PendingTasks)
	}

	// The record is gone; paying again must fail.
	if err := eng.CompletePendingDiceTask(out.Result.Task.ID); err == nil {
		t.Fatalf("expected second completion to fail")
	}
	if got := eng.Snapshot().Balance; got != before+out.Result.Gold {
		t.Fatalf("balance=%d after double complete, want %d", got, before+out.Result.Gold)
	}
}

func TestSkippedOutcomeOnlyRecordsHistory(t *testing.T) {
	eng, clock := newTestEngine(t)
	before := eng.Snapshot().Balance

	spinAndCommit(t, eng, clock)
	if err := eng.HandleDiceResult(OutcomeSkipped); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	st := eng.Snapshot()
	if st.Balance != before {
		t.Fatalf("balance=%d, want unchanged %d", st.Balance, before)
	}
	if len(st.Dice.History) != 1 || st.Dice.History[0].Outcome != OutcomeSkipped {
		t.Fatalf("history=%+v, want one skipped entry", st.Dice.History)
	}
}

func TestZeroWeightCategoriesNeverDrawn(t *testing.T) {
	eng, clock := newTestEngine(t)
	eng.UpdateDiceConfig(20, map[DiceCategory]int{
		CategoryHealth:     0,
		CategoryEfficiency: 0,
		CategoryLeisure:    5,
	})

	for i := 0; i < 10; i++ {
		out := spinAndCommit(t, eng, clock)
		if out.Result.Task.Category != CategoryLeisure {
			t.Fatalf("draw #%d category=%s, want leisure", i+1, out.Result.Task.Category)
		}
		if err := eng.HandleDiceResult(OutcomeSkipped); err != nil {
			t.Fatalf("resolve #%d: %v", i+1, err)
		}
	}
}

func TestAntiRepeatWindow(t *testing.T) {
	eng, clock := newTestEngine(t)
	eng.UpdateDiceConfig(50, map[DiceCategory]int{
		CategoryHealth:     1,
		CategoryEfficiency: 0,
		CategoryLeisure:    0,
	})
	// Grow the pool past the exclusion window so it cannot starve.
	for _, text := range []string{"Walk a block", "Balance on one leg", "Ten slow breaths"} {
		if _, err := eng.AddDiceTask(DiceTask{Text: text, Category: CategoryHealth, GoldRange: [2]int{5, 10}}); err != nil {
			t.Fatalf("add task: %v", err)
		}
	}

	for i := 0; i < 20; i++ {
		spinAndCommit(t, eng, clock)
		if err := eng.HandleDiceResult(OutcomeSkipped); err != nil {
			t.Fatalf("resolve #%d: %v", i+1, err)
		}
	}

	hist := eng.Snapshot().Dice.History
	for i := 0; i < len(hist); i++ {
		for j := i + 1; j < len(hist) && j <= i+antiRepeatWindow; j++ {
			if hist[i].TaskID == hist[j].TaskID {
				t.Fatalf("task %s repeated within %d draws (positions %d and %d)", hist[i].TaskID, antiRepeatWindow, i, j)
			}
		}
	}
}

func TestDiceHistoryCapped(t *testing.T) {
	eng, clock := newTestEngine(t)
	eng.UpdateDiceConfig(200, nil)

	for i := 0; i < maxDiceHistory+10; i++ {
		spinAndCommit(t, eng, clock)
		if err := eng.HandleDiceResult(OutcomeSkipped); err != nil {
			t.Fatalf("resolve #%d: %v", i+1, err)
		}
	}

	hist := eng.Snapshot().Dice.History
	if len(hist) != maxDiceHistory {
		t.Fatalf("history=%d, want capped at %d", len(hist), maxDiceHistory)
	}
}

func TestDiceTaskPoolManagement(t *testing.T) {
	eng, _ := newTestEngine(t)

	added, err := eng.AddDiceTask(DiceTask{Text: "Juggle", Category: CategoryLeisure, GoldRange: [2]int{1, 3}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.ID == "" {
		t.Fatalf("expected an assigned id")
	}

	if _, err := eng.AddDiceTask(DiceTask{Text: "Nope", Category: "mystery"}); err == nil {
		t.Fatalf("expected invalid category to be rejected")
	}
	if _, err := eng.AddDiceTask(DiceTask{Category: CategoryHealth}); err == nil {
		t.Fatalf("expected empty text to be rejected")
	}

	eng.DeleteDiceTask(added.ID, CategoryLeisure)
	for _, task := range eng.Snapshot().Dice.TaskPool[CategoryLeisure] {
		if task.ID == added.ID {
			t.Fatalf("task %s still in pool after delete", added.ID)
		}
	}
}

func TestWeightedCategorySelectionFrequency(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.UpdateDiceConfig(0, map[DiceCategory]int{
		CategoryHealth:     10,
		CategoryEfficiency: 10,
		CategoryLeisure:    80,
	})

	const draws = 5000
	counts := map[DiceCategory]int{}
	for i := 0; i < draws; i++ {
		res, err := eng.rollLocked()
		if err != nil {
			t.Fatalf("roll %d: %v", i, err)
		}
		counts[res.Task.Category]++
	}

	heavy := float64(counts[CategoryLeisure]) / draws
	if heavy < 0.77 || heavy > 0.83 {
		t.Fatalf("heavy category frequency=%.3f over %d draws, want about 0.80", heavy, draws)
	}
	if counts[CategoryHealth] == 0 || counts[CategoryEfficiency] == 0 {
		t.Fatalf("light categories never drawn: %v", counts)
	}
}

func TestRefusedSpinStillPersistsDailyReset(t *testing.T) {
	repo := newTestRepo(t)
	clock := newFakeClock(testStart)
	eng := newEngineOn(t, repo, clock)

	// Leave a committed result unresolved across midnight.
	spinAndCommit(t, eng, clock)
	clock.Advance(24 * time.Hour)

	if out := eng.SpinDice(); out.Success {
		t.Fatalf("expected busy refusal while a result is unresolved")
	}
	clock.Advance(DefaultConfig().PersistDelay + time.Millisecond)

	fresh := newEngineOn(t, repo, clock)
	st := fresh.Snapshot()
	if want := clock.Now().Format(DateFormat); st.Dice.LastClickDate != want {
		t.Fatalf("lastClickDate=%q, want %q recorded by the refused spin", st.Dice.LastClickDate, want)
	}
	if st.Dice.TodayCount != 0 {
		t.Fatalf("todayCount=%d, want 0 recorded by the refused spin", st.Dice.TodayCount)
	}
}
