package engine

import (
	"context"
	"encoding/json"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fateline/internal/storage"
)

type fakeTimer struct {
	c       *fakeClock
	fireAt  time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	was := !t.stopped
	t.stopped = false
	t.fireAt = t.c.now.Add(d)
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, fireAt: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires every due timer, outside the
// clock lock so callbacks can re-arm.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fireAt.After(c.now) {
			t.stopped = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

var testStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *storage.BlobRepo {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewBlobRepo(db)
}

func newEngineOn(t *testing.T, repo *storage.BlobRepo, clock *fakeClock) *Engine {
	t.Helper()
	eng := New(repo, DefaultConfig(),
		WithClock(clock),
		WithRand(rand.New(rand.NewSource(1))),
	)
	if err := eng.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	return eng
}

func newTestEngine(t *testing.T) (*Engine, *fakeClock) {
	t.Helper()
	clock := newFakeClock(testStart)
	return newEngineOn(t, newTestRepo(t), clock), clock
}

func TestHydrateDefaultsOnEmptyStore(t *testing.T) {
	eng, _ := newTestEngine(t)

	st := eng.Snapshot()
	if st.Balance != 1250 {
		t.Fatalf("balance=%d, want 1250", st.Balance)
	}
	if len(st.Habits) != 10 {
		t.Fatalf("habits=%d, want 10", len(st.Habits))
	}
	if len(st.Projects) != 4 {
		t.Fatalf("projects=%d, want 4", len(st.Projects))
	}
	if st.Day != 1 {
		t.Fatalf("day=%d, want 1", st.Day)
	}
	if st.Dice.Config.DailyLimit != 3 {
		t.Fatalf("dice daily limit=%d, want 3", st.Dice.Config.DailyLimit)
	}
}

func TestHydrateCorruptBlobFallsBackToDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	if err := repo.Put(ctx, KeyGlobalData, "{not json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, KeyDiceState, "also garbage"); err != nil {
		t.Fatalf("put: %v", err)
	}

	eng := newEngineOn(t, repo, newFakeClock(testStart))
	st := eng.Snapshot()
	if st.Balance != 1250 {
		t.Fatalf("balance=%d, want default 1250", st.Balance)
	}
	if len(st.Dice.TaskPool) == 0 {
		t.Fatalf("expected default dice task pool")
	}
}

func TestSpinDelayReportsConfiguredWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpinDelay = 2 * time.Second
	eng := New(newTestRepo(t), cfg, WithClock(newFakeClock(testStart)))
	if got := eng.SpinDelay(); got != 2*time.Second {
		t.Fatalf("spin delay=%v, want the configured 2s", got)
	}
}

func TestLifeStatsBlobKeepsOriginalShape(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	saved := `{"level":5,"xp":900,"inventory":["health potion"],"savings":120}`
	if err := repo.Put(ctx, KeyLifeStats, saved); err != nil {
		t.Fatalf("put: %v", err)
	}

	eng := newEngineOn(t, repo, newFakeClock(testStart))
	st := eng.Snapshot()
	if st.Level != 5 {
		t.Fatalf("level=%d, want 5 from the saved blob", st.Level)
	}
	if st.XP != 900 {
		t.Fatalf("xp=%d, want 900 from the saved blob", st.XP)
	}
	if st.Savings != 120 {
		t.Fatalf("savings=%d, want 120 from the saved blob", st.Savings)
	}
	if len(st.Inventory) != 1 || st.Inventory[0] != "health potion" {
		t.Fatalf("inventory=%v, want the saved item", st.Inventory)
	}

	if err := eng.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
	raw, ok, err := repo.Get(ctx, KeyLifeStats)
	if err != nil || !ok {
		t.Fatalf("get %s: ok=%v err=%v", KeyLifeStats, ok, err)
	}
	var out struct {
		Level     int      `json:"level"`
		XP        int      `json:"xp"`
		Inventory []string `json:"inventory"`
		Savings   int      `json:"savings"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("stored blob no longer decodes as character stats: %v", err)
	}
	if out.Level != 5 || out.XP != 900 || out.Savings != 120 {
		t.Fatalf("stored blob=%+v, want the hydrated values written back", out)
	}
}

func TestPersistRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	clock := newFakeClock(testStart)
	ctx := context.Background()

	eng := newEngineOn(t, repo, clock)
	today := clock.Now().Format(DateFormat)
	eng.ToggleHabit("mk1", today)
	eng.ApplyDelta(-100, "Bought coffee")
	if err := eng.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	eng2 := newEngineOn(t, repo, clock)
	st := eng2.Snapshot()
	if st.Balance != 1250+10-100 {
		t.Fatalf("balance=%d, want %d", st.Balance, 1250+10-100)
	}
	if !st.Habits[0].History[today] {
		t.Fatalf("expected habit mark to survive a restart")
	}
	if st.TodayStats.Spending != 100 {
		t.Fatalf("spending=%d, want 100", st.TodayStats.Spending)
	}
	if st.Day != 1 {
		t.Fatalf("day=%d, want 1 (start date must not move)", st.Day)
	}
}

func TestDebouncedPersistLandsAfterDelay(t *testing.T) {
	repo := newTestRepo(t)
	clock := newFakeClock(testStart)

	eng := newEngineOn(t, repo, clock)
	eng.ApplyDelta(500, ReasonManualAdjust)

	// Before the debounce window elapses nothing is written.
	early := newEngineOn(t, repo, newFakeClock(testStart))
	if got := early.Snapshot().Balance; got != 1250 {
		t.Fatalf("pre-debounce balance=%d, want 1250", got)
	}

	clock.Advance(DefaultConfig().PersistDelay + time.Millisecond)

	late := newEngineOn(t, repo, newFakeClock(testStart))
	if got := late.Snapshot().Balance; got != 1750 {
		t.Fatalf("post-debounce balance=%d, want 1750", got)
	}
}

func TestSessionResetOnNewDay(t *testing.T) {
	repo := newTestRepo(t)
	clock := newFakeClock(testStart)
	ctx := context.Background()

	eng := newEngineOn(t, repo, clock)
	today := clock.Now().Format(DateFormat)
	eng.ToggleHabit("mk1", today)
	eng.ToggleSubTask("p1", "t1_1")
	if err := eng.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	nextDay := newFakeClock(testStart.Add(26 * time.Hour))
	eng2 := newEngineOn(t, repo, nextDay)
	st := eng2.Snapshot()

	if st.Projects[0].SubTasks[0].Completed {
		t.Fatalf("expected subtasks reset on a new day")
	}
	if st.TodayStats != (DailyStats{}) {
		t.Fatalf("todayStats=%+v, want zero", st.TodayStats)
	}
	// The gentler boot reset keeps habit history and the wallet.
	if !st.Habits[0].History[today] {
		t.Fatalf("expected habit history to survive the session reset")
	}
	if st.Balance != 1250+10+10 {
		t.Fatalf("balance=%d, want %d", st.Balance, 1250+10+10)
	}
	if st.Day != 2 {
		t.Fatalf("day=%d, want 2", st.Day)
	}
}

func TestHydrateMergesCanonicalProjects(t *testing.T) {
	repo := newTestRepo(t)
	clock := newFakeClock(testStart)
	ctx := context.Background()

	eng := newEngineOn(t, repo, clock)
	eng.DeleteProject("p2")
	eng.DeleteProject("p3")
	if err := eng.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}

	eng2 := newEngineOn(t, repo, clock)
	st := eng2.Snapshot()
	ids := map[string]bool{}
	for _, p := range st.Projects {
		ids[p.ID] = true
	}
	for _, want := range []string{"p1", "p2", "p3", "p4"} {
		if !ids[want] {
			t.Fatalf("project %s missing after merge, got %v", want, ids)
		}
	}
}

func TestCloseFlushesPendingState(t *testing.T) {
	repo := newTestRepo(t)
	clock := newFakeClock(testStart)
	ctx := context.Background()

	eng := newEngineOn(t, repo, clock)
	eng.ApplyDelta(33, ReasonManualAdjust)
	if err := eng.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	eng2 := newEngineOn(t, repo, clock)
	if got := eng2.Snapshot().Balance; got != 1283 {
		t.Fatalf("balance=%d, want 1283", got)
	}
}
