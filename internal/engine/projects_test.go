package engine

import (
	"testing"
)

func TestProjectCompletionPaysVictoryBonus(t *testing.T) {
	eng, _ := newTestEngine(t)

	// p1 has three subtasks.
	eng.ToggleSubTask("p1", "t1_1")
	eng.ToggleSubTask("p1", "t1_2")
	eng.ToggleSubTask("p1", "t1_3")

	st := eng.Snapshot()
	if st.Projects[0].Status != ProjectCompleted {
		t.Fatalf("status=%s, want completed", st.Projects[0].Status)
	}
	wantGold := 1250 + 3*unitReward + projectWinGold
	if st.Balance != wantGold {
		t.Fatalf("balance=%d, want %d", st.Balance, wantGold)
	}
	wantXP := 3*unitReward + projectWinXP
	if st.XP != wantXP {
		t.Fatalf("xp=%d, want %d", st.XP, wantXP)
	}

	// Un-completing a subtask reverts the status but not the payout.
	eng.ToggleSubTask("p1", "t1_1")
	st = eng.Snapshot()
	if st.Projects[0].Status != ProjectActive {
		t.Fatalf("status=%s after undo, want active", st.Projects[0].Status)
	}
	if st.Balance != wantGold {
		t.Fatalf("balance=%d after undo, want unchanged %d", st.Balance, wantGold)
	}
}

func TestEmptyProjectNeverCompletes(t *testing.T) {
	eng, _ := newTestEngine(t)

	p := eng.AddProject("Someday maybe", nil)
	for _, sp := range eng.Snapshot().Projects {
		if sp.ID == p.ID && sp.Status != ProjectActive {
			t.Fatalf("status=%s, want active for a project with no subtasks", sp.Status)
		}
	}
}

func TestGiveUpSubTaskTriggersFateDraw(t *testing.T) {
	eng, _ := newTestEngine(t)
	before := eng.Snapshot().Balance

	out := eng.GiveUpSubTask("p1", "t1_1")
	if !out.Success || out.Result == nil {
		t.Fatalf("expected a fate draw, got %+v", out)
	}

	st := eng.Snapshot()
	sub := st.Projects[0].SubTasks[0]
	if !sub.Completed || !sub.GivenUp {
		t.Fatalf("subtask=%+v, want completed and given up", sub)
	}
	if !containsString(st.GivenUpTasks, "t1_1") {
		t.Fatalf("givenUpTasks=%v, want t1_1 recorded", st.GivenUpTasks)
	}
	// Surrender pays nothing.
	if st.Balance != before {
		t.Fatalf("balance=%d, want unchanged %d", st.Balance, before)
	}
}

func TestGiveUpUnknownSubTask(t *testing.T) {
	eng, _ := newTestEngine(t)

	if out := eng.GiveUpSubTask("p1", "nope"); out.Success {
		t.Fatalf("expected failure for unknown subtask")
	}
	if out := eng.GiveUpSubTask("nope", "t1_1"); out.Success {
		t.Fatalf("expected failure for unknown project")
	}
}

func TestUpdateProjectRewardsNewlyCompleted(t *testing.T) {
	eng, _ := newTestEngine(t)

	st := eng.Snapshot()
	subs := make([]SubTask, len(st.Projects[0].SubTasks))
	copy(subs, st.Projects[0].SubTasks)
	subs[0].Completed = true
	subs[1].Completed = true

	eng.UpdateProject("p1", "", subs)

	got := eng.Snapshot()
	if got.Balance != 1250+2*unitReward {
		t.Fatalf("balance=%d, want %d", got.Balance, 1250+2*unitReward)
	}
	if got.Projects[0].Status != ProjectActive {
		t.Fatalf("status=%s, want active (one subtask left)", got.Projects[0].Status)
	}
}

func TestAddFocusMinutes(t *testing.T) {
	eng, clock := newTestEngine(t)
	today := clock.Now().Format(DateFormat)

	eng.AddFocusMinutes("p1", 45)

	st := eng.Snapshot()
	if st.Projects[0].DailyFocus[today] != 45 {
		t.Fatalf("dailyFocus=%v, want 45 under %s", st.Projects[0].DailyFocus, today)
	}
	if st.TodayStats.FocusMinutes != 45 {
		t.Fatalf("focus=%d, want 45", st.TodayStats.FocusMinutes)
	}
}
