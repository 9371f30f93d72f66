package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DiceCategory string

const (
	CategoryHealth     DiceCategory = "health"
	CategoryEfficiency DiceCategory = "efficiency"
	CategoryLeisure    DiceCategory = "leisure"
)

// DiceCategories fixes the declaration order the roulette-wheel walk uses.
var DiceCategories = []DiceCategory{CategoryHealth, CategoryEfficiency, CategoryLeisure}

func (c DiceCategory) IsValid() bool {
	switch c {
	case CategoryHealth, CategoryEfficiency, CategoryLeisure:
		return true
	default:
		return false
	}
}

// antiRepeatWindow is the number of most recent draws whose task ids are
// excluded from the next draw.
const antiRepeatWindow = 5

type DiceTask struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Category DiceCategory `json:"category"`
	GoldRange [2]int      `json:"goldRange"`
	XPRange   *[2]int     `json:"xpRange,omitempty"`
	Duration  int         `json:"duration,omitempty"`
}

type DiceOutcome string

const (
	OutcomeCompleted DiceOutcome = "completed"
	OutcomeLater     DiceOutcome = "later"
	OutcomeSkipped   DiceOutcome = "skipped"
)

func ParseDiceOutcome(s string) (DiceOutcome, error) {
	o := DiceOutcome(s)
	switch o {
	case OutcomeCompleted, OutcomeLater, OutcomeSkipped:
		return o, nil
	default:
		return "", fmt.Errorf("invalid dice outcome: %q", s)
	}
}

// DiceResult is a rolled task with its frozen reward. The reward is fixed at
// roll time so deferring the task cannot reroll it.
type DiceResult struct {
	Task DiceTask `json:"task"`
	Gold int      `json:"gold"`
	XP   int      `json:"xp"`
}

// DiceRecord is a rolled task parked in the pending or completed list.
type DiceRecord struct {
	DiceResult
	Status      string `json:"status"`
	CompletedAt string `json:"completedAt,omitempty"`
}

type DiceHistory struct {
	TaskID   string       `json:"taskId"`
	Text     string       `json:"text"`
	Category DiceCategory `json:"category"`
	Outcome  DiceOutcome  `json:"outcome"`
	Gold     int          `json:"gold"`
	XP       int          `json:"xp"`
	Date     string       `json:"date"`
}

type DiceConfig struct {
	DailyLimit      int                  `json:"dailyLimit"`
	CategoryWeights map[DiceCategory]int `json:"categoryWeights"`
}

type DiceState struct {
	Config           DiceConfig                  `json:"config"`
	TaskPool         map[DiceCategory][]DiceTask `json:"taskPool"`
	History          []DiceHistory               `json:"history"`
	TodayCount       int                         `json:"todayCount"`
	LastClickDate    string                      `json:"lastClickDate"`
	CurrentResult    *DiceResult                 `json:"currentResult"`
	IsSpinning       bool                        `json:"isSpinning"`
	PendingTasks     []DiceRecord                `json:"pendingTasks"`
	CompletedTasks   []DiceRecord                `json:"completedTasks"`
	CompletedTaskIDs []string                    `json:"completedTaskIds"`
}

func DefaultDiceState(now time.Time) DiceState {
	xp := func(min, max int) *[2]int { r := [2]int{min, max}; return &r }
	return DiceState{
		Config: DiceConfig{
			DailyLimit: 3,
			CategoryWeights: map[DiceCategory]int{
				CategoryHealth:     1,
				CategoryEfficiency: 1,
				CategoryLeisure:    1,
			},
		},
		TaskPool: map[DiceCategory][]DiceTask{
			CategoryHealth: {
				{ID: "dt-h1", Text: "Stretch for 5 minutes", Category: CategoryHealth, GoldRange: [2]int{5, 15}, Duration: 5},
				{ID: "dt-h2", Text: "Drink a glass of water", Category: CategoryHealth, GoldRange: [2]int{5, 10}},
				{ID: "dt-h3", Text: "20 jumping jacks", Category: CategoryHealth, GoldRange: [2]int{10, 20}, XPRange: xp(5, 15), Duration: 5},
			},
			CategoryEfficiency: {
				{ID: "dt-e1", Text: "Clear your inbox to zero", Category: CategoryEfficiency, GoldRange: [2]int{10, 25}, XPRange: xp(10, 20), Duration: 15},
				{ID: "dt-e2", Text: "Plan tomorrow in 3 bullet points", Category: CategoryEfficiency, GoldRange: [2]int{10, 20}, Duration: 10},
				{ID: "dt-e3", Text: "Close every browser tab", Category: CategoryEfficiency, GoldRange: [2]int{5, 15}},
			},
			CategoryLeisure: {
				{ID: "dt-l1", Text: "Listen to one full album side", Category: CategoryLeisure, GoldRange: [2]int{5, 15}, Duration: 20},
				{ID: "dt-l2", Text: "Sketch something for 10 minutes", Category: CategoryLeisure, GoldRange: [2]int{10, 20}, XPRange: xp(5, 10), Duration: 10},
				{ID: "dt-l3", Text: "Step outside for fresh air", Category: CategoryLeisure, GoldRange: [2]int{5, 10}, Duration: 5},
			},
		},
		History:          []DiceHistory{},
		LastClickDate:    now.Format(DateFormat),
		PendingTasks:     []DiceRecord{},
		CompletedTasks:   []DiceRecord{},
		CompletedTaskIDs: []string{},
	}
}

// SpinOutcome is the structured answer of SpinDice. A refused spin is a
// normal result, not an error.
type SpinOutcome struct {
	Success bool
	Message string
	Result  *DiceResult
}

// SpinDice runs the availability gate and, when allowed, rolls a task and
// arms the resolution window. The rolled result is committed into
// CurrentResult (and TodayCount incremented) only after the spin delay
// elapses, mirroring the visual animation window.
func (e *Engine) SpinDice() SpinOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := &e.st.Dice
	today := e.clock.Now().Format(DateFormat)

	// New day resets the counter before the gate is consulted. The reset is
	// a state change even when the gate then refuses, so it gets persisted.
	if d.LastClickDate != today {
		d.TodayCount = 0
		d.LastClickDate = today
		e.schedulePersistLocked()
	}

	if d.IsSpinning || d.CurrentResult != nil {
		return SpinOutcome{Success: false, Message: BusyError{}.Error()}
	}
	if d.TodayCount >= d.Config.DailyLimit {
		return SpinOutcome{
			Success: false,
			Message: LimitError{Action: "fate dice", Limit: d.Config.DailyLimit}.Error(),
		}
	}

	result, err := e.rollLocked()
	if err != nil {
		return SpinOutcome{Success: false, Message: err.Error()}
	}

	d.IsSpinning = true
	e.schedulePersistLocked()

	res := *result
	e.spinTimer = e.clock.AfterFunc(e.cfg.SpinDelay, func() {
		e.commitSpin(res)
	})

	return SpinOutcome{Success: true, Result: result}
}

// commitSpin lands the rolled result once the animation window has elapsed.
func (e *Engine) commitSpin(res DiceResult) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := &e.st.Dice
	if !d.IsSpinning {
		return
	}
	d.IsSpinning = false
	d.CurrentResult = &res
	d.TodayCount++
	e.schedulePersistLocked()
}

// rollLocked picks a category by weight, then a task with the anti-repeat
// exclusion, then freezes the reward. Caller holds the lock.
func (e *Engine) rollLocked() (*DiceResult, error) {
	d := &e.st.Dice

	totalWeight := 0
	for _, c := range DiceCategories {
		if len(d.TaskPool[c]) == 0 {
			continue
		}
		totalWeight += d.Config.CategoryWeights[c]
	}
	if totalWeight <= 0 {
		return nil, fmt.Errorf("dice task pool is empty")
	}

	draw := e.rng.Float64() * float64(totalWeight)
	var category DiceCategory
	for _, c := range DiceCategories {
		if len(d.TaskPool[c]) == 0 {
			continue
		}
		w := float64(d.Config.CategoryWeights[c])
		if draw < w {
			category = c
			break
		}
		draw -= w
	}
	if category == "" {
		category = DiceCategories[len(DiceCategories)-1]
	}

	pool := d.TaskPool[category]

	recent := make(map[string]bool, antiRepeatWindow)
	for i := 0; i < len(d.History) && i < antiRepeatWindow; i++ {
		recent[d.History[i].TaskID] = true
	}

	eligible := make([]DiceTask, 0, len(pool))
	for _, t := range pool {
		if !recent[t.ID] {
			eligible = append(eligible, t)
		}
	}
	// A small pool would starve under the exclusion; fall back to all of it.
	if len(eligible) == 0 {
		eligible = pool
	}

	task := eligible[e.rng.Intn(len(eligible))]

	gold := e.rollRange(task.GoldRange)
	xp := 0
	if task.XPRange != nil {
		xp = e.rollRange(*task.XPRange)
	}
	return &DiceResult{Task: task, Gold: gold, XP: xp}, nil
}

func (e *Engine) rollRange(r [2]int) int {
	min, max := r[0], r[1]
	if max < min {
		min, max = max, min
	}
	if max == min {
		return min
	}
	return min + e.rng.Intn(max-min+1)
}

// HandleDiceResult resolves the pending CurrentResult. "completed" pays the
// frozen reward, "later" parks the task, "skipped" only records history.
func (e *Engine) HandleDiceResult(outcome DiceOutcome) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := &e.st.Dice
	if d.CurrentResult == nil {
		return fmt.Errorf("no fate draw awaiting resolution")
	}
	res := *d.CurrentResult
	now := e.clock.Now()

	switch outcome {
	case OutcomeCompleted:
		e.applyDeltaLocked(res.Gold, "Fate task done: "+res.Task.Text)
		e.addXPLocked(res.XP)
		e.st.TodayStats.TasksCompleted++
		if res.Task.Duration > 0 {
			e.st.TodayStats.FocusMinutes += res.Task.Duration
		}
		e.removePendingLocked(res.Task.ID)
		d.CompletedTasks = append(d.CompletedTasks, DiceRecord{
			DiceResult:  res,
			Status:      "completed",
			CompletedAt: now.Format(time.RFC3339),
		})
		if !containsString(d.CompletedTaskIDs, res.Task.ID) {
			d.CompletedTaskIDs = append(d.CompletedTaskIDs, res.Task.ID)
		}

	case OutcomeLater:
		d.PendingTasks = append(d.PendingTasks, DiceRecord{DiceResult: res, Status: "pending"})

	case OutcomeSkipped:
		// History only.

	default:
		return fmt.Errorf("invalid dice outcome: %q", outcome)
	}

	e.pushDiceHistoryLocked(DiceHistory{
		TaskID:   res.Task.ID,
		Text:     res.Task.Text,
		Category: res.Task.Category,
		Outcome:  outcome,
		Gold:     res.Gold,
		XP:       res.XP,
		Date:     now.Format(DateFormat),
	})
	d.CurrentResult = nil

	e.afterMutationLocked()
	return nil
}

// CompletePendingDiceTask resolves a previously deferred task, paying its
// frozen reward exactly once.
func (e *Engine) CompletePendingDiceTask(taskID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := &e.st.Dice
	idx := -1
	for i := range d.PendingTasks {
		if d.PendingTasks[i].Task.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("pending fate task %q not found", taskID)
	}

	rec := d.PendingTasks[idx]
	d.PendingTasks = append(d.PendingTasks[:idx], d.PendingTasks[idx+1:]...)

	e.applyDeltaLocked(rec.Gold, "Fate task done: "+rec.Task.Text)
	e.addXPLocked(rec.XP)
	e.st.TodayStats.TasksCompleted++
	if rec.Task.Duration > 0 {
		e.st.TodayStats.FocusMinutes += rec.Task.Duration
	}

	rec.Status = "completed"
	rec.CompletedAt = e.clock.Now().Format(time.RFC3339)
	d.CompletedTasks = append(d.CompletedTasks, rec)
	if !containsString(d.CompletedTaskIDs, rec.Task.ID) {
		d.CompletedTaskIDs = append(d.CompletedTaskIDs, rec.Task.ID)
	}

	e.afterMutationLocked()
	return nil
}

// AbandonPendingDiceTask drops a deferred task without reward.
func (e *Engine) AbandonPendingDiceTask(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.removePendingLocked(taskID)
	e.schedulePersistLocked()
}

func (e *Engine) removePendingLocked(taskID string) {
	d := &e.st.Dice
	for i := range d.PendingTasks {
		if d.PendingTasks[i].Task.ID == taskID {
			d.PendingTasks = append(d.PendingTasks[:i], d.PendingTasks[i+1:]...)
			return
		}
	}
}

func (e *Engine) pushDiceHistoryLocked(h DiceHistory) {
	d := &e.st.Dice
	d.History = append([]DiceHistory{h}, d.History...)
	if len(d.History) > maxDiceHistory {
		d.History = d.History[:maxDiceHistory]
	}
}

// AddDiceTask appends a task to its category pool, assigning an id when the
// caller left it empty.
func (e *Engine) AddDiceTask(task DiceTask) (DiceTask, error) {
	if !task.Category.IsValid() {
		return DiceTask{}, fmt.Errorf("invalid dice category: %q", task.Category)
	}
	if task.Text == "" {
		return DiceTask{}, fmt.Errorf("dice task text is required")
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.st.Dice.TaskPool[task.Category] = append(e.st.Dice.TaskPool[task.Category], task)
	e.schedulePersistLocked()
	return task, nil
}

func (e *Engine) DeleteDiceTask(taskID string, category DiceCategory) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pool := e.st.Dice.TaskPool[category]
	for i := range pool {
		if pool[i].ID == taskID {
			e.st.Dice.TaskPool[category] = append(pool[:i], pool[i+1:]...)
			e.schedulePersistLocked()
			return
		}
	}
}

// UpdateDiceTask applies non-zero fields of upd onto the stored task.
func (e *Engine) UpdateDiceTask(taskID string, category DiceCategory, upd DiceTask) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pool := e.st.Dice.TaskPool[category]
	for i := range pool {
		if pool[i].ID != taskID {
			continue
		}
		if upd.Text != "" {
			pool[i].Text = upd.Text
		}
		if upd.GoldRange != [2]int{} {
			pool[i].GoldRange = upd.GoldRange
		}
		if upd.XPRange != nil {
			pool[i].XPRange = upd.XPRange
		}
		if upd.Duration != 0 {
			pool[i].Duration = upd.Duration
		}
		e.schedulePersistLocked()
		return
	}
}

// UpdateDiceConfig merges the provided partial config. Zero values leave the
// stored config untouched.
func (e *Engine) UpdateDiceConfig(dailyLimit int, weights map[DiceCategory]int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	d := &e.st.Dice
	if dailyLimit > 0 {
		d.Config.DailyLimit = dailyLimit
	}
	for c, w := range weights {
		if !c.IsValid() || w < 0 {
			e.log.Warn("ignoring invalid dice weight", zap.String("category", string(c)), zap.Int("weight", w))
			continue
		}
		d.Config.CategoryWeights[c] = w
	}
	e.schedulePersistLocked()
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
