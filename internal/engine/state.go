package engine

import "time"

// Save-data keys. The shapes behind them are stable and versioned by key
// name; changing a shape means introducing a new key.
const (
	KeyGlobalData    = "aes-global-data-v3"
	KeyDiceState     = "aes-dice-state"
	KeyCheckinStreak = "aes-checkin-streak"
	KeyLastCheckin   = "aes-last-checkin-date"
	KeyLifeStats     = "life-game-stats-v2"
	KeyWeeklyCheckin = "life-game-weekly-checkin"
	KeyBank          = "life-game-bank"
)

// DateFormat is the canonical calendar-day key used across history maps,
// rollover comparisons and the dice availability gate.
const DateFormat = "2006-01-02"

type Habit struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Reward   int             `json:"reward"`
	XP       int             `json:"xp"`
	Duration int             `json:"duration"`
	Streak   int             `json:"streak"`
	History  map[string]bool `json:"history"`
	Archived bool            `json:"archived"`
	Reminder string          `json:"reminder,omitempty"`
}

type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	Completed bool   `json:"completed"`
	GivenUp   bool   `json:"isGivenUp,omitempty"`
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
)

type Project struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Status     ProjectStatus  `json:"status"`
	SubTasks   []SubTask      `json:"subTasks"`
	DailyFocus map[string]int `json:"dailyFocus"`
}

// AllSubTasksDone reports whether the project qualifies as completed.
func (p *Project) AllSubTasksDone() bool {
	if len(p.SubTasks) == 0 {
		return false
	}
	for _, st := range p.SubTasks {
		if !st.Completed {
			return false
		}
	}
	return true
}

type Transaction struct {
	ID     string `json:"id"`
	Time   string `json:"time"`
	Desc   string `json:"desc"`
	Amount int    `json:"amount"`
}

type Review struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

type DailyStats struct {
	FocusMinutes   int `json:"focusMinutes"`
	TasksCompleted int `json:"tasksCompleted"`
	HabitsDone     int `json:"habitsDone"`
	Earnings       int `json:"earnings"`
	Spending       int `json:"spending"`
}

type Challenges struct {
	Date  string   `json:"date"`
	Tasks []string `json:"tasks"`
}

// State is the full progression state graph. It is owned by one Engine and
// mutated only through the Engine's command methods.
type State struct {
	Habits       []Habit
	Projects     []Project
	HabitOrder   []string
	ProjectOrder []string

	Balance      int
	XP           int
	Level        int
	Day          int
	Transactions []Transaction
	Reviews      []Review

	StatsHistory map[int]DailyStats
	TodayStats   DailyStats

	ChallengePool        []string
	TodaysChallenges     Challenges
	CompletedRandomTasks map[string][]string

	ClaimedBadges []string
	WeeklyGoal    string
	TodayGoal     string
	GivenUpTasks  []string

	LastLoginDate string
	StartDate     time.Time

	Inventory []string
	Savings   int

	Dice DiceState

	CheckinStreak   int
	LastCheckinDate string
	WeeklyCheckin   map[string]bool

	Bank BankAccount
}

const (
	defaultBalance    = 1250
	maxTransactions   = 50
	maxDiceHistory    = 100
	dailyChallengeCnt = 3
)

func defaultHabits() []Habit {
	mk := func(id, name string, reward, xp, duration int) Habit {
		return Habit{ID: id, Name: name, Reward: reward, XP: xp, Duration: duration, History: map[string]bool{}}
	}
	return []Habit{
		mk("mk1", "Bio activation: wake, sunlight & cold water (07:30)", 5, 10, 15),
		mk("mk2", "Mind calibration: meditation & fear-setting (08:00)", 10, 15, 20),
		mk("mk3", "Deep work I: eat the frog (08:30)", 30, 50, 90),
		mk("mk4", "Refuel: low-carb lunch (12:00)", 5, 5, 30),
		mk("mk5", "Active rest: walk or nap (13:00)", 10, 10, 30),
		mk("mk6", "Deep work II: volume & execution (14:00)", 30, 50, 120),
		mk("mk7", "Body rebuild: high-intensity training (18:00)", 20, 30, 60),
		mk("mk8", "Input & review: reading and journal (19:30)", 15, 20, 45),
		mk("mk9", "Digital sunset: away from screens (23:00)", 10, 10, 0),
		mk("mk10", "Shutdown: deep sleep (00:00)", 20, 20, 480),
	}
}

func defaultProjects() []Project {
	st := func(id, title string, duration int) SubTask {
		return SubTask{ID: id, Title: title, Duration: duration}
	}
	return []Project{
		{
			ID: "p1", Name: "Channel growth I", Status: ProjectActive, DailyFocus: map[string]int{},
			SubTasks: []SubTask{
				st("t1_1", "Publish a video", 60),
				st("t1_2", "Publish a teaser clip", 30),
				st("t1_3", "Publish a text post", 20),
			},
		},
		{
			ID: "p2", Name: "Channel growth II", Status: ProjectActive, DailyFocus: map[string]int{},
			SubTasks: []SubTask{
				st("t2_1", "Publish a video", 60),
				st("t2_2", "Publish a teaser clip", 30),
				st("t2_3", "Publish a text post", 20),
			},
		},
		{
			ID: "p3", Name: "First 1000 followers", Status: ProjectActive, DailyFocus: map[string]int{},
			SubTasks: []SubTask{
				st("t3_1", "Pick a topic", 15),
				st("t3_2", "Draft the script", 30),
				st("t3_3", "Record footage", 45),
				st("t3_4", "Edit the cut", 60),
				st("t3_5", "Publish", 15),
			},
		},
		{
			ID: "p4", Name: "Visible abs", Status: ProjectActive, DailyFocus: map[string]int{},
			SubTasks: []SubTask{
				st("t4_1", "Drink eight glasses of water", 5),
				st("t4_2", "50 squats", 10),
				st("t4_3", "50 push-ups", 10),
				st("t4_4", "30 minutes of cardio", 30),
				st("t4_5", "Keep carbs in check", 5),
			},
		},
	}
}

func defaultChallengePool() []string {
	return []string{
		"Do 50 push-ups",
		"Cold shower or cold face wash",
		"Meditate for 20 minutes",
		"Read 10 pages",
		"One hour fully offline",
		"Tidy the room or the desk",
		"Call a parent or a friend",
		"Write down 3 things you are grateful for",
		"50 squats",
		"2-minute plank",
		"Skip dinner / light fast",
		"Write a 500-word journal entry",
		"Review the day's wins and losses",
		"Practice photography for 15 minutes",
		"Study 5 minutes of management theory",
	}
}

// DefaultState is the hard-coded fallback used on first run and whenever the
// persisted blob cannot be decoded.
func DefaultState(now time.Time) *State {
	habits := defaultHabits()
	projects := defaultProjects()

	habitOrder := make([]string, len(habits))
	for i := range habits {
		habitOrder[i] = habits[i].ID
	}
	projectOrder := make([]string, len(projects))
	for i := range projects {
		projectOrder[i] = projects[i].ID
	}

	return &State{
		Habits:               habits,
		Projects:             projects,
		HabitOrder:           habitOrder,
		ProjectOrder:         projectOrder,
		Balance:              defaultBalance,
		Level:                1,
		Day:                  1,
		StatsHistory:         map[int]DailyStats{},
		ChallengePool:        defaultChallengePool(),
		CompletedRandomTasks: map[string][]string{},
		WeeklyGoal:           "This week: take the 'first draft' hill",
		TodayGoal:            "Today: finish the core module",
		LastLoginDate:        now.Format(DateFormat),
		StartDate:            now,
		WeeklyCheckin:        map[string]bool{},
		Dice:                 DefaultDiceState(now),
		Bank:                 BankAccount{LastInterestDate: now.Format(DateFormat)},
	}
}
