package engine

import "github.com/google/uuid"

const (
	projectWinGold = 100
	projectWinXP   = 200
)

// ToggleSubTask flips a subtask's completion. Newly completed subtasks pay
// the unit reward; completing the last one pays the project victory bonus.
// Un-completing a subtask of a completed project reverts it to active.
// Unknown ids are silent no-ops.
func (e *Engine) ToggleSubTask(projectID, subTaskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.findProjectLocked(projectID)
	if p == nil {
		return
	}

	var st *SubTask
	for i := range p.SubTasks {
		if p.SubTasks[i].ID == subTaskID {
			st = &p.SubTasks[i]
			break
		}
	}
	if st == nil {
		return
	}

	if st.Completed {
		st.Completed = false
		st.GivenUp = false
	} else {
		st.Completed = true
		e.applyDeltaLocked(unitReward, "Subtask done: "+p.Name)
		e.addXPLocked(unitReward)
		e.st.TodayStats.FocusMinutes += unitReward
	}

	e.reconcileProjectStatusLocked(p)
	e.afterMutationLocked()
}

// GiveUpSubTask marks a subtask done without reward, records the surrender
// and triggers a fate draw as the price of abandonment.
func (e *Engine) GiveUpSubTask(projectID, subTaskID string) SpinOutcome {
	e.mu.Lock()

	p := e.findProjectLocked(projectID)
	if p == nil {
		e.mu.Unlock()
		return SpinOutcome{Success: false, Message: "project not found"}
	}

	found := false
	for i := range p.SubTasks {
		if p.SubTasks[i].ID == subTaskID {
			p.SubTasks[i].Completed = true
			p.SubTasks[i].GivenUp = true
			found = true
			break
		}
	}
	if !found {
		e.mu.Unlock()
		return SpinOutcome{Success: false, Message: "subtask not found"}
	}

	if !containsString(e.st.GivenUpTasks, subTaskID) {
		e.st.GivenUpTasks = append(e.st.GivenUpTasks, subTaskID)
	}
	e.schedulePersistLocked()
	e.mu.Unlock()

	return e.SpinDice()
}

// UpdateProject replaces the provided fields of a project. Passing subtasks
// re-runs the completion accounting: each newly completed subtask pays the
// unit reward, and full completion pays the victory bonus.
func (e *Engine) UpdateProject(id string, name string, subTasks []SubTask) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.findProjectLocked(id)
	if p == nil {
		return
	}
	if name != "" {
		p.Name = name
	}
	if subTasks != nil {
		prevDone := 0
		for _, st := range p.SubTasks {
			if st.Completed {
				prevDone++
			}
		}
		newDone := 0
		for _, st := range subTasks {
			if st.Completed {
				newDone++
			}
		}
		p.SubTasks = subTasks

		for i := 0; i < newDone-prevDone; i++ {
			e.applyDeltaLocked(unitReward, "Subtask done: "+p.Name)
			e.addXPLocked(unitReward)
			e.st.TodayStats.FocusMinutes += unitReward
		}

		e.reconcileProjectStatusLocked(p)
	}

	e.afterMutationLocked()
}

// reconcileProjectStatusLocked flips status on the all-done boundary in both
// directions, paying the victory bonus exactly on the active→completed edge.
func (e *Engine) reconcileProjectStatusLocked(p *Project) {
	allDone := p.AllSubTasksDone()
	switch {
	case allDone && p.Status != ProjectCompleted:
		p.Status = ProjectCompleted
		e.applyDeltaLocked(projectWinGold, "Campaign won: "+p.Name)
		e.addXPLocked(projectWinXP)
	case !allDone && p.Status == ProjectCompleted:
		p.Status = ProjectActive
	}
}

// AddFocusMinutes books focus time against a project's per-day map.
func (e *Engine) AddFocusMinutes(projectID string, minutes int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.findProjectLocked(projectID)
	if p == nil {
		return
	}
	if p.DailyFocus == nil {
		p.DailyFocus = map[string]int{}
	}
	today := e.clock.Now().Format(DateFormat)
	p.DailyFocus[today] += minutes
	e.st.TodayStats.FocusMinutes += minutes
	e.afterMutationLocked()
}

func (e *Engine) AddProject(name string, subTasks []SubTask) Project {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := Project{
		ID:         uuid.NewString(),
		Name:       name,
		Status:     ProjectActive,
		SubTasks:   subTasks,
		DailyFocus: map[string]int{},
	}
	e.st.Projects = append(e.st.Projects, p)
	e.st.ProjectOrder = append(e.st.ProjectOrder, p.ID)
	e.schedulePersistLocked()
	return p
}

func (e *Engine) DeleteProject(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.st.Projects {
		if e.st.Projects[i].ID == id {
			e.st.Projects = append(e.st.Projects[:i], e.st.Projects[i+1:]...)
			break
		}
	}
	e.st.ProjectOrder = removeString(e.st.ProjectOrder, id)
	e.schedulePersistLocked()
}

func (e *Engine) findProjectLocked(id string) *Project {
	for i := range e.st.Projects {
		if e.st.Projects[i].ID == id {
			return &e.st.Projects[i]
		}
	}
	return nil
}
