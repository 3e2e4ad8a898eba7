package engine

import (
	"fmt"

	"github.com/beka-birhanu/labyrinth-duel/domain"
)

// AddPlayer seats a player in a waiting game. Filling the last seat moves
// the game to the maze-creation stage and arms the creation deadline.
// Already-seated players are a no-op so rejoin races stay harmless.
func (e *Engine) AddPlayer(g *domain.Game, playerID string) error {
	if g.HasPlayer(playerID) {
		return nil
	}
	if g.Status != domain.StatusWaiting {
		return ErrWrongStatus
	}
	g.Players = append(g.Players, playerID)
	if g.Full() {
		g.Status = domain.StatusCreating
		deadline := e.now().Add(domain.MazeCreationDuration)
		g.CreationTimerEnd = &deadline
	}
	return nil
}

// SubmitMaze validates and records a player's authored maze. When the last
// maze lands the round setup runs in the same mutation, so both happen in
// one committed transaction.
func (e *Engine) SubmitMaze(g *domain.Game, playerID string, maze *domain.Maze) error {
	if !g.HasPlayer(playerID) {
		return ErrNotInGame
	}
	if g.Status != domain.StatusCreating {
		return ErrWrongStatus
	}
	if _, ok := g.Mazes[playerID]; ok {
		return &domain.ValidationError{Invariant: domain.InvariantAlreadyPresent, Detail: "one maze per player"}
	}
	maze.OwnerID = playerID
	maze.GridSize = domain.GridSizeFor(g.GameType)
	if err := maze.Validate(); err != nil {
		return err
	}
	g.Mazes[playerID] = maze

	if len(g.Mazes) == domain.RequiredPlayerCount(g.Mode) {
		e.startPlaying(g)
	}
	return nil
}

// AutoSubmitMissingMazes fills in a random maze for every player who missed
// the creation deadline. Safe to call from any client watching the timer;
// it is a no-op unless the game is still creating and the deadline passed.
func (e *Engine) AutoSubmitMissingMazes(g *domain.Game) {
	if g.Status != domain.StatusCreating {
		return
	}
	if g.CreationTimerEnd == nil || e.now().Before(*g.CreationTimerEnd) {
		return
	}
	size := domain.GridSizeFor(g.GameType)
	for _, p := range g.Players {
		if _, ok := g.Mazes[p]; !ok {
			g.Mazes[p] = domain.RandomMaze(p, size, e.rng)
		}
	}
	if len(g.Mazes) == domain.RequiredPlayerCount(g.Mode) {
		e.startPlaying(g)
	}
}

// startPlaying runs the round setup once all mazes are in: turn order
// shuffle, maze assignment, player state defaults, objective deal for extra
// mode, and the status transition. The status gate makes a second invocation
// from a racing last-submitter a no-op.
func (e *Engine) startPlaying(g *domain.Game) {
	if g.Status != domain.StatusCreating {
		return
	}

	n := len(g.Players)
	g.TurnOrder = append([]string(nil), g.Players...)
	e.rng.Shuffle(n, func(i, j int) { g.TurnOrder[i], g.TurnOrder[j] = g.TurnOrder[j], g.TurnOrder[i] })

	assignment := e.assignMazes(g.Players)

	now := e.now()
	for i, p := range g.Players {
		maze := g.Mazes[assignment[i]]
		g.States[p] = &domain.PlayerState{
			AssignedMazeOwnerID: assignment[i],
			Position:            maze.Start,
			RevealedCells:       map[string]bool{maze.Start.Key(): true},
		}
	}

	g.Status = domain.StatusPlaying
	g.CreationTimerEnd = nil
	g.Log(0, "", "setup", "all mazes are in, the game begins", now)

	if g.GameType == domain.TypeExtra {
		e.dealObjectives(g)
		g.RoundNumber = 1
		g.CurrentPhase = domain.PhaseDeclaration
		phaseEnd := now.Add(domain.DeclarationPhaseDuration)
		g.PhaseTimerEnd = &phaseEnd
		gameEnd := now.Add(domain.ExtraModeTotalTimeLimit)
		g.GameTimerEnd = &gameEnd
		return
	}

	g.TurnNumber = 1
	g.CurrentTurnPlayerID = g.TurnOrder[0]
}

// assignMazes produces a bijection players -> maze owners with no player
// solving their own maze. A self-assignment is repaired with a rotate-forward
// probe; if no probe position works it is force-swapped with the next slot.
func (e *Engine) assignMazes(players []string) []string {
	n := len(players)
	assignment := append([]string(nil), players...)
	e.rng.Shuffle(n, func(i, j int) { assignment[i], assignment[j] = assignment[j], assignment[i] })
	if n < 2 {
		return assignment
	}

	for i := range players {
		if assignment[i] != players[i] {
			continue
		}
		swapped := false
		for attempts := 0; attempts < n; attempts++ {
			j := (i + attempts + 1) % n
			if j == i {
				continue
			}
			if assignment[j] != players[i] && assignment[i] != players[j] {
				assignment[i], assignment[j] = assignment[j], assignment[i]
				swapped = true
				break
			}
		}
		if !swapped {
			j := (i + 1) % n
			assignment[i], assignment[j] = assignment[j], assignment[i]
		}
	}
	return assignment
}

// dealObjectives hands each player a unique secret objective from a
// shuffled copy of the pool, substituting a random other player into
// templates that need a target. With more players than pool entries the
// overflow players get none.
func (e *Engine) dealObjectives(g *domain.Game) {
	pool := append([]domain.SecretObjective(nil), domain.ObjectivePool...)
	e.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	for idx, p := range g.Players {
		if idx >= len(pool) {
			break
		}
		obj := pool[idx]
		if obj.RequiresTarget {
			others := make([]string, 0, len(g.Players)-1)
			for _, o := range g.Players {
				if o != p {
					others = append(others, o)
				}
			}
			if len(others) == 0 {
				continue
			}
			obj.TargetPlayerID = others[e.rng.Intn(len(others))]
			obj.Text = fmt.Sprintf(obj.Text, obj.TargetPlayerID)
		}
		dealt := obj
		g.States[p].SecretObjective = &dealt
	}
}
