package engine

import (
	"fmt"
	"math"
)

type AchievementKind string

const (
	KindLevel       AchievementKind = "level"
	KindFocus       AchievementKind = "focus"
	KindWealth      AchievementKind = "wealth"
	KindConsumption AchievementKind = "consumption"
	KindCombat      AchievementKind = "combat"
	KindCheckin     AchievementKind = "checkin"
)

// AchievementDef is a threshold badge. Kind selects both the metric it
// watches and the reward formula paid on claim. Ids keep their historical
// prefix shape purely for save-data compatibility.
type AchievementDef struct {
	ID        string
	Kind      AchievementKind
	Title     string
	Threshold int
}

// ClaimResult is the reward paid out by a claim.
type ClaimResult struct {
	XP   int
	Gold int
}

// Reward computes the payout for a definition from its kind and threshold.
func (d AchievementDef) Reward() ClaimResult {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = 1
	}
	standard := maxInt(1, threshold/10)

	switch d.Kind {
	case KindLevel:
		return ClaimResult{XP: standard, Gold: standard}
	case KindFocus:
		return ClaimResult{Gold: maxInt(10, standard*5)}
	case KindWealth:
		return ClaimResult{Gold: maxInt(5, int(math.Floor(float64(threshold)*0.05)))}
	case KindConsumption:
		return ClaimResult{Gold: threshold / 10}
	case KindCombat, KindCheckin:
		return ClaimResult{XP: threshold * 10, Gold: threshold * 10}
	default:
		return ClaimResult{}
	}
}

type tier struct {
	min   int
	title string
}

var levelTiers = []tier{
	{200, "Awakened"}, {500, "Wallbreaker"}, {1000, "Lightchaser"},
	{2000, "Against the Current"}, {3500, "Windcutter"}, {5000, "Swordbearer"},
	{8000, "Watcher"}, {12000, "Pathfinder"}, {18000, "Navigator"},
	{25000, "Transcendent"}, {35000, "Ascendant"}, {50000, "Demigod"},
	{75000, "True God"}, {100000, "Starsoul"}, {150000, "Dimension Walker"},
	{250000, "Worldshaper"}, {500000, "Unnameable"},
}

var focusTiers = []tier{
	{5, "First Taste of Stillness"}, {15, "Undistracted"}, {30, "Swift and Sharp"},
	{50, "Finding the Groove"}, {80, "Fully Absorbed"}, {120, "Deep Immersion"},
	{180, "Flow Apprentice"}, {250, "Mind and Task as One"}, {350, "Iron Will"},
	{500, "Unmovable"}, {700, "Absolute Territory"}, {1000, "Timekeeper"},
	{1500, "Grind Sovereign"}, {2000, "In Harmony"}, {3000, "Masterful"},
	{5000, "Void Breaker"}, {8000, "Dimensional Ascent"}, {10000, "Lord of Hours"},
}

var wealthTiers = []tier{
	{50, "Dirt Poor"}, {150, "Instant Noodle Patron"}, {300, "Barely Fed"},
	{500, "Bubble Tea Freedom"}, {800, "Delivery Without Looking"}, {1500, "Crazy Thursday Sponsor"},
	{2500, "Market Freedom"}, {4000, "Junior Wage"}, {6000, "Senior Worker"},
	{10000, "Supermarket Noble"}, {20000, "Comfortable Household"}, {50000, "Middle Class"},
	{100000, "Car in Cash"}, {250000, "Financial Freedom"}, {500000, "New Capital"},
	{1000000, "City's Richest"}, {5000000, "Capital Leviathan"}, {10000000, "Wealth of Nations"},
}

var combatTiers = []tier{
	{1, "Private"}, {5, "Private First Class"}, {15, "Corporal"}, {30, "Sergeant"},
	{50, "Staff Sergeant"}, {80, "Sergeant Major"}, {120, "Second Lieutenant"},
	{180, "First Lieutenant"}, {250, "Captain"}, {350, "Major"}, {500, "Lieutenant Colonel"},
	{700, "Colonel"}, {1000, "Senior Colonel"}, {1500, "Brigadier"}, {2000, "Major General"},
	{3000, "Lieutenant General"}, {5000, "General"}, {10000, "Marshal"},
}

var checkinTiers = []tier{
	{3, "Keeping At It"}, {7, "Check-in Regular"}, {15, "Rising Discipline"},
	{30, "Habit Formed"}, {60, "Seasons Passing"}, {100, "Friend of Time"},
	{200, "Enduring Sovereign"}, {365, "Eternal Devotion"},
}

var consumptionTiers = []tier{
	{100, "First Splurge"}, {500, "Happy Spender"}, {1000, "Quality of Life"},
	{2000, "Supply Magnate"}, {3500, "Paying Warrior"}, {5000, "Spending Supreme"},
	{8000, "Black Market Regular"}, {12000, "Gear Master"}, {18000, "Money to Burn"},
	{25000, "Economic Pillar"}, {40000, "Guild Chairman"}, {60000, "Budding Tycoon"},
	{90000, "Capital Titan"}, {150000, "Market Master"}, {250000, "Richer Than Nations"},
	{500000, "God of Coin"}, {1000000, "Void Financier"}, {5000000, "Limitless Spender"},
}

// AchievementDefs returns every badge definition in evaluation order.
func AchievementDefs() []AchievementDef {
	defs := make([]AchievementDef, 0, 100)
	add := func(kind AchievementKind, prefix string, tiers []tier) {
		for _, t := range tiers {
			defs = append(defs, AchievementDef{
				ID:        fmt.Sprintf("%s-%d", prefix, t.min),
				Kind:      kind,
				Title:     t.title,
				Threshold: t.min,
			})
		}
	}
	add(KindLevel, "lvl", levelTiers)
	add(KindFocus, "rank", focusTiers)
	add(KindWealth, "class", wealthTiers)
	add(KindCombat, "combat", combatTiers)
	add(KindCheckin, "check", checkinTiers)
	add(KindConsumption, "consume", consumptionTiers)
	return defs
}

// Metrics are the cumulative quantities achievements watch.
type Metrics struct {
	XP         int
	Balance    int
	FocusHours int
	Kills      int
	Streak     int
	Spent      int
}

// Metrics returns the current cumulative metrics.
func (e *Engine) Metrics() Metrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.metricsLocked()
}

func (e *Engine) metricsLocked() Metrics {
	focusMin := 0
	kills := 0
	spent := 0
	for _, ds := range e.st.StatsHistory {
		focusMin += ds.FocusMinutes
		kills += ds.TasksCompleted + ds.HabitsDone
		spent += ds.Spending
	}
	return Metrics{
		XP:         e.st.XP,
		Balance:    e.st.Balance,
		FocusHours: focusMin / 60,
		Kills:      kills,
		Streak:     e.st.CheckinStreak,
		Spent:      spent,
	}
}

func (d AchievementDef) metric(m Metrics) int {
	switch d.Kind {
	case KindLevel:
		return m.XP
	case KindFocus:
		return m.FocusHours
	case KindWealth:
		return m.Balance
	case KindCombat:
		return m.Kills
	case KindCheckin:
		return m.Streak
	case KindConsumption:
		return m.Spent
	default:
		return 0
	}
}

// Crossed reports whether the badge threshold is met by the metrics.
func (d AchievementDef) Crossed(m Metrics) bool {
	return d.Threshold >= 1 && d.metric(m) >= d.Threshold
}

// evaluateAchievementsLocked surfaces the first crossed, unclaimed badge as
// the single active achievement, if none is active yet.
func (e *Engine) evaluateAchievementsLocked() {
	if e.activeAchievement != "" {
		return
	}
	m := e.metricsLocked()
	for _, d := range AchievementDefs() {
		if d.Crossed(m) && !containsString(e.st.ClaimedBadges, d.ID) {
			e.activeAchievement = d.ID
			return
		}
	}
}

// ActiveAchievement returns the badge currently awaiting a claim, if any.
func (e *Engine) ActiveAchievement() (AchievementDef, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activeAchievement == "" {
		return AchievementDef{}, false
	}
	for _, d := range AchievementDefs() {
		if d.ID == e.activeAchievement {
			return d, true
		}
	}
	return AchievementDef{}, false
}

// ClaimAchievement pays a crossed badge's reward and records the claim.
// Claiming an already-claimed id is a silent no-op so a double claim can
// never double-pay.
func (e *Engine) ClaimAchievement(id string) (ClaimResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var def *AchievementDef
	for _, d := range AchievementDefs() {
		if d.ID == id {
			def = &d
			break
		}
	}
	if def == nil {
		return ClaimResult{}, fmt.Errorf("unknown achievement %q", id)
	}
	if containsString(e.st.ClaimedBadges, id) {
		return ClaimResult{}, nil
	}
	if !def.Crossed(e.metricsLocked()) {
		return ClaimResult{}, fmt.Errorf("achievement %q is not unlocked yet", id)
	}

	e.st.ClaimedBadges = append(e.st.ClaimedBadges, id)
	reward := def.Reward()
	if reward.Gold > 0 {
		e.applyDeltaLocked(reward.Gold, "Achievement reward")
	}
	if reward.XP > 0 {
		e.addXPLocked(reward.XP)
	}
	if e.activeAchievement == id {
		e.activeAchievement = ""
	}

	e.afterMutationLocked()
	return reward, nil
}
