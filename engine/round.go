package engine

import (
	"fmt"

	"github.com/beka-birhanu/labyrinth-duel/domain"
)

// AdvancePhase pushes the round state machine forward when its current
// deadline has passed. It is level triggered: any number of clients and the
// watchdog may call it, and calls made before the deadline or after another
// writer already advanced are no-ops.
func (e *Engine) AdvancePhase(g *domain.Game) error {
	if g.GameType != domain.TypeExtra {
		return ErrWrongStatus
	}
	if g.Status != domain.StatusPlaying {
		return nil
	}
	if e.CheckTermination(g) {
		return nil
	}
	if g.PhaseTimerEnd == nil || e.now().Before(*g.PhaseTimerEnd) {
		return nil
	}

	switch g.CurrentPhase {
	case domain.PhaseDeclaration:
		e.forceTimeoutDeclarations(g)
		e.beginResolution(g)
	case domain.PhaseActionExecution:
		return e.AdvanceActor(g, g.CurrentActionPlayerID)
	case domain.PhaseResultPublication:
		e.enterChat(g)
	case domain.PhaseChat:
		e.wrapRound(g)
	}
	return nil
}

func (e *Engine) enterResultPublication(g *domain.Game) {
	g.CurrentPhase = domain.PhaseResultPublication
	g.CurrentActionPlayerID = ""
	g.RoundActionOrder = nil
	deadline := e.now().Add(domain.ResultPublicationDuration)
	g.PhaseTimerEnd = &deadline
	e.CheckTermination(g)
}

func (e *Engine) enterChat(g *domain.Game) {
	g.CurrentPhase = domain.PhaseChat
	deadline := e.now().Add(domain.ChatPhaseDuration)
	g.PhaseTimerEnd = &deadline
}

// wrapRound closes a round on chat exit: per-player flags reset, timed
// state pruned, possibly a special event, then a fresh declaration phase.
func (e *Engine) wrapRound(g *domain.Game) {
	newRound := g.RoundNumber + 1

	for _, p := range g.Players {
		ps := g.State(p)
		ps.HasDeclaredThisTurn = false
		ps.ActionExecutedThisTurn = false
		ps.DeclaredAction = nil
		ps.IsTurnSkipped = false
	}

	kept := g.Traps[:0]
	for _, t := range g.Traps {
		if t.ExpiryRound >= newRound {
			kept = append(kept, t)
		}
	}
	g.Traps = kept

	for _, p := range g.Players {
		ps := g.State(p)
		live := ps.SabotageEffects[:0]
		for _, ef := range ps.SabotageEffects {
			if ef.ExpiryRound >= newRound {
				live = append(live, ef)
			}
		}
		ps.SabotageEffects = live
	}

	for _, al := range g.Alliances {
		if al.Status != domain.AllianceActive || al.DurationRounds == 0 {
			continue
		}
		if al.StartRound+al.DurationRounds <= newRound {
			for _, m := range al.Members {
				if g.State(m).AllianceID == al.ID {
					g.State(m).AllianceID = ""
				}
			}
			al.Status = domain.AllianceExpired
		}
	}

	if g.SpecialEvent != nil && g.SpecialEvent.StartRound < newRound {
		g.SpecialEvent = nil
	}
	if newRound%domain.SpecialEventIntervalRounds == 0 {
		e.injectSpecialEvent(g, newRound)
	}

	g.RoundNumber = newRound
	g.CurrentPhase = domain.PhaseDeclaration
	deadline := e.now().Add(domain.DeclarationPhaseDuration)
	g.PhaseTimerEnd = &deadline
	e.CheckTermination(g)
}

// injectSpecialEvent picks one of the three round-wide events.
func (e *Engine) injectSpecialEvent(g *domain.Game, round int) {
	id := domain.SpecialEventIDs[e.rng.Intn(len(domain.SpecialEventIDs))]
	g.SpecialEvent = &domain.SpecialEvent{ID: id, StartRound: round}
	now := e.now()

	switch id {
	case domain.SpecialEventInformationLeak:
		for _, p := range g.Players {
			pos := g.State(p).Position
			g.Log(round, "", "event", fmt.Sprintf("leak: %s is at (%d,%d)", p, pos.Row, pos.Col), now)
		}
	case domain.SpecialEventCommunicationJam:
		g.Log(round, "", "event", "a jamming field silences all chatter this round", now)
	case domain.SpecialEventMazeShift:
		for _, maze := range g.Mazes {
			e.shiftMaze(maze)
		}
		g.Log(round, "", "event", "the mazes groan and shift", now)
	}
}

// shiftMaze toggles up to the shift limit of wall slots. A toggle that
// would disconnect start from goal is rejected and retried with another
// wall; removals always pass.
func (e *Engine) shiftMaze(maze *domain.Maze) {
	slots := domain.AllWallSlots(maze.GridSize)
	toggled := 0
	for attempts := 0; toggled < domain.MazeShiftMaxToggles && attempts < len(slots); attempts++ {
		w := slots[e.rng.Intn(len(slots))]
		if e.toggleForShift(maze, w) {
			toggled++
		}
	}
}

func (e *Engine) toggleForShift(maze *domain.Maze, w domain.Wall) bool {
	for i, existing := range maze.Walls {
		if existing == w {
			maze.Walls = append(maze.Walls[:i], maze.Walls[i+1:]...)
			return true
		}
	}
	next := append(append([]domain.Wall(nil), maze.Walls...), w)
	if !domain.PathExists(maze.Start, maze.Goal, next, maze.GridSize) {
		return false
	}
	maze.Walls = next
	return true
}

// CheckTermination finalizes the game when a finish condition holds:
// majority at goal, round cap passed, or the overall clock run out.
// Returns true when the game is (or just became) finished.
func (e *Engine) CheckTermination(g *domain.Game) bool {
	if g.Status == domain.StatusFinished {
		return true
	}
	if g.Status != domain.StatusPlaying {
		return false
	}
	majority := (len(g.Players) + 1) / 2
	timedOut := g.GameTimerEnd != nil && !e.now().Before(*g.GameTimerEnd)
	if g.GoalCount >= majority || g.RoundNumber > domain.MaxRounds || timedOut {
		e.Finalize(g)
		return true
	}
	return false
}

// CanChat reports whether a player may post to the game chat right now. An
// info jam on the player or a round-wide communication jam silences them.
func CanChat(g *domain.Game, playerID string) bool {
	ps := g.State(playerID)
	if ps == nil {
		return false
	}
	if ps.HasEffect(domain.SabotageInfoJam, g.RoundNumber) {
		return false
	}
	if g.EventActive(domain.SpecialEventCommunicationJam, g.RoundNumber) {
		return false
	}
	return true
}

// AccrueThinkingTime adds one second of personal time to every player still
// deciding during the declaration phase. The watchdog calls this on its tick.
func (e *Engine) AccrueThinkingTime(g *domain.Game) {
	if g.Status != domain.StatusPlaying || g.GameType != domain.TypeExtra {
		return
	}
	if g.CurrentPhase != domain.PhaseDeclaration {
		return
	}
	for _, p := range g.Players {
		ps := g.State(p)
		if !ps.HasDeclaredThisTurn {
			ps.PersonalTimeUsed++
		}
	}
}
