package engine

// CharacterTitles are the display titles earned by current metrics, one per
// tracked track. Each is the highest tier whose threshold the metric meets,
// or the base title when none is met yet.
type CharacterTitles struct {
	Level  string
	Focus  string
	Wealth string
	Rank   string
}

func titleFor(tiers []tier, metric int, base string) string {
	title := base
	for _, t := range tiers {
		if metric < t.min {
			break
		}
		title = t.title
	}
	return title
}

// Titles returns the character's current titles.
func (e *Engine) Titles() CharacterTitles {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := e.metricsLocked()
	return CharacterTitles{
		Level:  titleFor(levelTiers, m.XP, "Unawakened"),
		Focus:  titleFor(focusTiers, m.FocusHours, "Restless"),
		Wealth: titleFor(wealthTiers, m.Balance, "Penniless"),
		Rank:   titleFor(combatTiers, m.Kills, "Recruit"),
	}
}
