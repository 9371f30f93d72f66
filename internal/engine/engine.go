package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"fateline/internal/storage"
)

// Engine owns the progression state and serializes every command through a
// single mutex, so command effects are never interleaved. All durable writes
// go through the debounced persist cycle.
type Engine struct {
	mu    sync.Mutex
	st    *State
	store *storage.BlobRepo
	log   *zap.Logger
	clock Clock
	rng   *rand.Rand
	cfg   Config

	persistTimer  Timer
	rolloverTimer Timer
	spinTimer     Timer

	activeAchievement string
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithClock swaps the wall clock, primarily for tests.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option { return func(e *Engine) { e.log = l } }

// WithRand seeds the random source used by dice rolls and challenge draws.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// New builds an Engine over the given blob store. The returned engine holds
// default state until Hydrate is called.
func New(store *storage.BlobRepo, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		cfg:   cfg,
		log:   zap.NewNop(),
		clock: SystemClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.clock.Now().UnixNano()))
	}
	e.st = DefaultState(e.clock.Now())
	return e
}

// SpinDelay reports the configured spin-resolution window, so callers can
// wait it out without re-reading configuration.
func (e *Engine) SpinDelay() time.Duration { return e.cfg.SpinDelay }

// globalBlob is the wire shape of the main save-data key. Field names are
// frozen; renaming one orphans existing save files.
type globalBlob struct {
	Habits               []Habit               `json:"habits"`
	Projects             []Project             `json:"projects"`
	HabitOrder           []string              `json:"habitOrder"`
	ProjectOrder         []string              `json:"projectOrder"`
	Balance              int                   `json:"balance"`
	XP                   int                   `json:"xp"`
	Day                  int                   `json:"day"`
	Transactions         []Transaction         `json:"transactions"`
	Reviews              []Review              `json:"reviews"`
	StatsHistory         map[int]DailyStats    `json:"statsHistory"`
	TodayStats           DailyStats            `json:"todayStats"`
	ChallengePool        []string              `json:"challengePool"`
	TodaysChallenges     Challenges            `json:"todaysChallenges"`
	CompletedRandomTasks map[string][]string   `json:"completedRandomTasks"`
	ClaimedBadges        []string              `json:"claimedBadges"`
	WeeklyGoal           string                `json:"weeklyGoal"`
	TodayGoal            string                `json:"todayGoal"`
	GivenUpTasks         []string              `json:"givenUpTasks"`
	LastLoginDate        string                `json:"lastLoginDate"`
	StartDate            int64                 `json:"startDate"`
}

// lifeStatsBlob is the wire shape of the character-stats key. It is a
// separate save file from the main blob and keeps its own field names.
type lifeStatsBlob struct {
	Level     int      `json:"level"`
	XP        int      `json:"xp"`
	Inventory []string `json:"inventory"`
	Savings   int      `json:"savings"`
}

// Hydrate loads the persisted blobs into the engine. A missing or undecodable
// blob falls back to its default with a warning; hydration itself fails only
// when the store is unreachable. When the saved lastLoginDate is not today,
// session-scoped fields are reset before the state is handed out.
func (e *Engine) Hydrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.HydrateTimeout)
	defer cancel()

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	st := DefaultState(now)

	if raw, ok, err := e.store.Get(ctx, KeyGlobalData); err != nil {
		return fmt.Errorf("load %s: %w", KeyGlobalData, err)
	} else if ok {
		var gb globalBlob
		if err := json.Unmarshal([]byte(raw), &gb); err != nil {
			e.log.Warn("corrupt save data, starting fresh", zap.String("key", KeyGlobalData), zap.Error(err))
		} else {
			e.applyGlobalBlob(st, gb, now)
		}
	}

	e.loadJSONBlob(ctx, KeyDiceState, &st.Dice)
	normalizeDiceState(&st.Dice)

	ls := lifeStatsBlob{Level: st.Level, XP: st.XP, Inventory: st.Inventory, Savings: st.Savings}
	e.loadJSONBlob(ctx, KeyLifeStats, &ls)
	st.Level = maxInt(1, ls.Level)
	st.XP = ls.XP
	st.Inventory = ls.Inventory
	st.Savings = ls.Savings
	e.loadJSONBlob(ctx, KeyWeeklyCheckin, &st.WeeklyCheckin)
	if st.WeeklyCheckin == nil {
		st.WeeklyCheckin = map[string]bool{}
	}
	e.loadJSONBlob(ctx, KeyBank, &st.Bank)

	if raw, ok, err := e.store.Get(ctx, KeyCheckinStreak); err == nil && ok {
		if _, err := fmt.Sscanf(raw, "%d", &st.CheckinStreak); err != nil {
			e.log.Warn("corrupt check-in streak", zap.String("value", raw))
			st.CheckinStreak = 0
		}
	}
	if raw, ok, err := e.store.Get(ctx, KeyLastCheckin); err == nil && ok {
		st.LastCheckinDate = raw
	}

	today := now.Format(DateFormat)
	e.st = st
	if st.LastLoginDate != today {
		e.sessionResetLocked()
		e.st.LastLoginDate = today
	}
	e.st.Day = dayNumber(e.st.StartDate, now)

	e.evaluateAchievementsLocked()
	e.schedulePersistLocked()
	return nil
}

// applyGlobalBlob copies a decoded save blob over the default state, merging
// saved projects with the canonical set by id so new built-in projects appear
// for old saves.
func (e *Engine) applyGlobalBlob(st *State, gb globalBlob, now time.Time) {
	if gb.Habits != nil {
		st.Habits = gb.Habits
		for i := range st.Habits {
			if st.Habits[i].History == nil {
				st.Habits[i].History = map[string]bool{}
			}
		}
	}
	if gb.Projects != nil {
		st.Projects = mergeProjects(gb.Projects, defaultProjects())
	}
	if gb.HabitOrder != nil {
		st.HabitOrder = gb.HabitOrder
	}
	if gb.ProjectOrder != nil {
		st.ProjectOrder = gb.ProjectOrder
	}
	st.Balance = gb.Balance
	if gb.Day > 0 {
		st.Day = gb.Day
	}
	st.Transactions = gb.Transactions
	st.Reviews = gb.Reviews
	if gb.StatsHistory != nil {
		st.StatsHistory = gb.StatsHistory
	}
	st.TodayStats = gb.TodayStats
	if gb.ChallengePool != nil {
		st.ChallengePool = gb.ChallengePool
	}
	st.TodaysChallenges = gb.TodaysChallenges
	if gb.CompletedRandomTasks != nil {
		st.CompletedRandomTasks = gb.CompletedRandomTasks
	}
	st.ClaimedBadges = gb.ClaimedBadges
	if gb.WeeklyGoal != "" {
		st.WeeklyGoal = gb.WeeklyGoal
	}
	if gb.TodayGoal != "" {
		st.TodayGoal = gb.TodayGoal
	}
	st.GivenUpTasks = gb.GivenUpTasks
	st.LastLoginDate = gb.LastLoginDate
	if gb.StartDate > 0 {
		st.StartDate = time.UnixMilli(gb.StartDate)
	} else {
		st.StartDate = now
	}
}

// mergeProjects keeps every saved project and appends canonical projects the
// save does not know about yet.
func mergeProjects(saved, canonical []Project) []Project {
	out := make([]Project, 0, len(saved)+len(canonical))
	seen := map[string]bool{}
	for _, p := range saved {
		if p.DailyFocus == nil {
			p.DailyFocus = map[string]int{}
		}
		out = append(out, p)
		seen[p.ID] = true
	}
	for _, p := range canonical {
		if !seen[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func normalizeDiceState(d *DiceState) {
	if d.TaskPool == nil {
		d.TaskPool = map[DiceCategory][]DiceTask{}
	}
	if d.Config.CategoryWeights == nil {
		d.Config.CategoryWeights = map[DiceCategory]int{}
	}
	if d.Config.DailyLimit <= 0 {
		d.Config.DailyLimit = 3
	}
	// IsSpinning is transient; a spin interrupted by shutdown never committed.
	d.IsSpinning = false
}

// loadJSONBlob decodes a stored key into dst, leaving dst untouched on a
// missing key or a decode failure.
func (e *Engine) loadJSONBlob(ctx context.Context, key string, dst any) {
	raw, ok, err := e.store.Get(ctx, key)
	if err != nil {
		e.log.Warn("load failed", zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		e.log.Warn("corrupt save data", zap.String("key", key), zap.Error(err))
	}
}

// afterMutationLocked folds today's stats into history, re-evaluates
// achievements against the new metrics and schedules a persist.
func (e *Engine) afterMutationLocked() {
	e.st.StatsHistory[e.st.Day] = e.st.TodayStats
	e.evaluateAchievementsLocked()
	e.schedulePersistLocked()
}

// schedulePersistLocked arms (or pushes back) the debounced persist timer so
// a burst of commands produces one write.
func (e *Engine) schedulePersistLocked() {
	if e.persistTimer != nil {
		e.persistTimer.Reset(e.cfg.PersistDelay)
		return
	}
	e.persistTimer = e.clock.AfterFunc(e.cfg.PersistDelay, func() {
		if err := e.Flush(context.Background()); err != nil {
			e.log.Error("persist failed", zap.Error(err))
		}
	})
}

// Flush writes every save-data key in one transaction, immediately.
func (e *Engine) Flush(ctx context.Context) error {
	e.mu.Lock()
	blobs, err := e.encodeBlobsLocked()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.HydrateTimeout)
	defer cancel()
	if err := e.store.PutAll(ctx, blobs); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

func (e *Engine) encodeBlobsLocked() (map[string]string, error) {
	st := e.st
	gb := globalBlob{
		Habits:               st.Habits,
		Projects:             st.Projects,
		HabitOrder:           st.HabitOrder,
		ProjectOrder:         st.ProjectOrder,
		Balance:              st.Balance,
		Day:                  st.Day,
		Transactions:         st.Transactions,
		Reviews:              st.Reviews,
		StatsHistory:         st.StatsHistory,
		TodayStats:           st.TodayStats,
		ChallengePool:        st.ChallengePool,
		TodaysChallenges:     st.TodaysChallenges,
		CompletedRandomTasks: st.CompletedRandomTasks,
		ClaimedBadges:        st.ClaimedBadges,
		WeeklyGoal:           st.WeeklyGoal,
		TodayGoal:            st.TodayGoal,
		GivenUpTasks:         st.GivenUpTasks,
		LastLoginDate:        st.LastLoginDate,
		StartDate:            st.StartDate.UnixMilli(),
	}
	ls := lifeStatsBlob{
		Level:     st.Level,
		XP:        st.XP,
		Inventory: st.Inventory,
		Savings:   st.Savings,
	}

	out := make(map[string]string, 7)
	put := func(key string, v any) error {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		out[key] = string(b)
		return nil
	}
	if err := put(KeyGlobalData, gb); err != nil {
		return nil, err
	}
	if err := put(KeyDiceState, st.Dice); err != nil {
		return nil, err
	}
	if err := put(KeyLifeStats, ls); err != nil {
		return nil, err
	}
	if err := put(KeyWeeklyCheckin, st.WeeklyCheckin); err != nil {
		return nil, err
	}
	if err := put(KeyBank, st.Bank); err != nil {
		return nil, err
	}
	out[KeyCheckinStreak] = fmt.Sprintf("%d", st.CheckinStreak)
	out[KeyLastCheckin] = st.LastCheckinDate
	return out, nil
}

// Snapshot returns a deep copy of the current state for read-only display.
func (e *Engine) Snapshot() *State {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, err := json.Marshal(e.st)
	if err != nil {
		e.log.Error("snapshot encode failed", zap.Error(err))
		return DefaultState(e.clock.Now())
	}
	var cp State
	if err := json.Unmarshal(b, &cp); err != nil {
		e.log.Error("snapshot decode failed", zap.Error(err))
		return DefaultState(e.clock.Now())
	}
	return &cp
}

// Close stops all timers and flushes any pending changes.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	for _, t := range []Timer{e.persistTimer, e.rolloverTimer, e.spinTimer} {
		if t != nil {
			t.Stop()
		}
	}
	e.persistTimer = nil
	e.rolloverTimer = nil
	e.spinTimer = nil
	e.mu.Unlock()

	return e.Flush(ctx)
}
