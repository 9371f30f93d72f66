package engine

import (
	"fmt"
	"testing"
)

func TestTransactionLogCappedNewestFirst(t *testing.T) {
	eng, _ := newTestEngine(t)

	for i := 0; i < maxTransactions+5; i++ {
		eng.ApplyDelta(1, fmt.Sprintf("drip %d", i))
	}

	st := eng.Snapshot()
	if len(st.Transactions) != maxTransactions {
		t.Fatalf("transactions=%d, want %d", len(st.Transactions), maxTransactions)
	}
	if st.Transactions[0].Desc != fmt.Sprintf("drip %d", maxTransactions+4) {
		t.Fatalf("head=%q, want the most recent entry", st.Transactions[0].Desc)
	}
	if st.Balance != 1250+maxTransactions+5 {
		t.Fatalf("balance=%d, want %d", st.Balance, 1250+maxTransactions+5)
	}
}

func TestManualAdjustSkipsDailyStats(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.ApplyDelta(300, ReasonManualAdjust)
	eng.ApplyDelta(-120, ReasonManualAdjust)

	st := eng.Snapshot()
	if st.Balance != 1250+300-120 {
		t.Fatalf("balance=%d, want %d", st.Balance, 1250+300-120)
	}
	if st.TodayStats.Earnings != 0 || st.TodayStats.Spending != 0 {
		t.Fatalf("stats=%+v, want untouched by manual adjustments", st.TodayStats)
	}
	if len(st.Transactions) != 2 {
		t.Fatalf("transactions=%d, want 2 (adjustments are still logged)", len(st.Transactions))
	}
}

func TestEarningsAndSpendingSplit(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.ApplyDelta(80, "Sold loot")
	eng.ApplyDelta(-30, "Bought snacks")

	st := eng.Snapshot()
	if st.TodayStats.Earnings != 80 {
		t.Fatalf("earnings=%d, want 80", st.TodayStats.Earnings)
	}
	if st.TodayStats.Spending != 30 {
		t.Fatalf("spending=%d, want 30", st.TodayStats.Spending)
	}
}

func TestXPFloorsAtZero(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.AddXP(5)
	eng.AddXP(-50)
	if got := eng.Snapshot().XP; got != 0 {
		t.Fatalf("xp=%d, want floor at 0", got)
	}
}

func TestCompletePomodoro(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.CompletePomodoro(25)

	st := eng.Snapshot()
	if st.Balance != 1250+25 {
		t.Fatalf("balance=%d, want %d", st.Balance, 1250+25)
	}
	if st.XP != 50 {
		t.Fatalf("xp=%d, want 50", st.XP)
	}
	if st.TodayStats.FocusMinutes != 25 {
		t.Fatalf("focus=%d, want 25", st.TodayStats.FocusMinutes)
	}
}

func TestCompleteTask(t *testing.T) {
	eng, _ := newTestEngine(t)

	eng.CompleteTask("Mail the package")

	st := eng.Snapshot()
	if st.Balance != 1250+50 {
		t.Fatalf("balance=%d, want %d", st.Balance, 1250+50)
	}
	if st.TodayStats.TasksCompleted != 1 {
		t.Fatalf("tasksCompleted=%d, want 1", st.TodayStats.TasksCompleted)
	}
}

func TestSaveReview(t *testing.T) {
	eng, _ := newTestEngine(t)

	r := eng.SaveReview("Shipped the feature, slept too late.")
	if r.ID == "" || r.Date != testStart.Format(DateFormat) {
		t.Fatalf("review=%+v, want id and today's date", r)
	}
	if got := len(eng.Snapshot().Reviews); got != 1 {
		t.Fatalf("reviews=%d, want 1", got)
	}
}
