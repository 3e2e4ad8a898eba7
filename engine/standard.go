package engine

import (
	"fmt"
	"sort"

	"github.com/beka-birhanu/labyrinth-duel/domain"
)

// StandardMove applies one step for the player whose turn it is. Landing on
// a cell occupied by another player opens a battle instead of passing the
// turn; otherwise the turn advances round-robin.
func (e *Engine) StandardMove(g *domain.Game, playerID string, dir domain.Direction) error {
	if g.Status != domain.StatusPlaying || g.GameType != domain.TypeStandard {
		return ErrWrongStatus
	}
	if !g.HasPlayer(playerID) {
		return ErrNotInGame
	}
	if g.ActiveBattle != nil && g.ActiveBattle.Participant(playerID) {
		return ErrInBattle
	}
	if g.CurrentTurnPlayerID != playerID {
		return ErrNotYourTurn
	}

	ps := g.State(playerID)
	maze := g.AssignedMaze(playerID)
	target, err := stepTo(ps.Position, dir, maze)
	if err != nil {
		return err
	}

	ps.Position = target
	e.awardDiscovery(g, ps, target)
	e.stampGoal(g, playerID, ps, maze, target)

	if opponent := e.coLocatedOpponent(g, playerID, target); opponent != "" {
		e.openBattle(g, playerID, opponent, target)
		return nil
	}

	if e.standardFinished(g) {
		e.finishStandard(g)
		return nil
	}
	e.advanceTurn(g)
	return nil
}

// stepTo resolves a direction against the grid and the maze walls.
func stepTo(from domain.Cell, dir domain.Direction, maze *domain.Maze) (domain.Cell, error) {
	target := from.Step(dir)
	if target == from {
		return from, ErrUnknownDirection
	}
	if !target.InBound(maze.GridSize) {
		return from, &domain.IllegalActionError{Reason: "move leaves the grid"}
	}
	if maze.Blocked(from, target) {
		return from, &domain.IllegalActionError{Reason: "a wall blocks that move"}
	}
	return target, nil
}

// awardDiscovery pays the per-mode reward the first time a cell is revealed.
func (e *Engine) awardDiscovery(g *domain.Game, ps *domain.PlayerState, cell domain.Cell) {
	if ps.RevealedCells[cell.Key()] {
		return
	}
	ps.RevealedCells[cell.Key()] = true
	ps.Score += domain.DiscoveryPointsFor(g.GameType)
}

// stampGoal records the first arrival at the assigned goal.
func (e *Engine) stampGoal(g *domain.Game, playerID string, ps *domain.PlayerState, maze *domain.Maze, cell domain.Cell) {
	if cell != maze.Goal || ps.GoalTime != nil {
		return
	}
	at := e.now()
	ps.GoalTime = &at
	g.GoalCount++
	g.PlayerGoalOrder = append(g.PlayerGoalOrder, playerID)
	g.Log(g.RoundNumber, playerID, "goal", fmt.Sprintf("%s reached their goal", playerID), at)
}

// coLocatedOpponent returns another unfinished player standing on cell, or "".
func (e *Engine) coLocatedOpponent(g *domain.Game, playerID string, cell domain.Cell) string {
	for _, p := range g.Players {
		if p == playerID {
			continue
		}
		other := g.State(p)
		if other.GoalTime == nil && other.Position == cell {
			return p
		}
	}
	return ""
}

func (e *Engine) openBattle(g *domain.Game, a, b string, cell domain.Cell) {
	g.ActiveBattle = &domain.Battle{PlayerA: a, PlayerB: b, Cell: cell}
	g.State(a).InBattle = true
	g.State(b).InBattle = true
	g.Log(g.RoundNumber, a, "battle", fmt.Sprintf("%s and %s clash and place their bets", a, b), e.now())
}

// PlaceBattleBet records one combatant's secret bet. The second bet settles
// the battle: the higher bidder takes the loser's bet from them, a tie moves
// nothing, and the turn then advances past the battle opener.
func (e *Engine) PlaceBattleBet(g *domain.Game, playerID string, bet int) error {
	if g.Status != domain.StatusPlaying || g.GameType != domain.TypeStandard {
		return ErrWrongStatus
	}
	b := g.ActiveBattle
	if b == nil || !b.Participant(playerID) {
		return ErrNoBattle
	}
	maxBet := g.State(playerID).Score
	if maxBet < 1 {
		maxBet = 1
	}
	if bet < 1 || bet > maxBet {
		return ErrBetOutOfRange
	}

	switch playerID {
	case b.PlayerA:
		if b.BetA != nil {
			return &domain.IllegalActionError{Reason: "bet already placed"}
		}
		b.BetA = &bet
	case b.PlayerB:
		if b.BetB != nil {
			return &domain.IllegalActionError{Reason: "bet already placed"}
		}
		b.BetB = &bet
	}
	if b.BetA == nil || b.BetB == nil {
		return nil
	}

	e.settleBattle(g, b)
	g.ActiveBattle = nil
	if e.standardFinished(g) {
		e.finishStandard(g)
		return nil
	}
	e.advanceTurn(g)
	return nil
}

func (e *Engine) settleBattle(g *domain.Game, b *domain.Battle) {
	g.State(b.PlayerA).InBattle = false
	g.State(b.PlayerB).InBattle = false

	switch {
	case *b.BetA == *b.BetB:
		g.Log(g.RoundNumber, "", "battle", "the battle ends in a draw, no points change hands", e.now())
	case *b.BetA > *b.BetB:
		g.State(b.PlayerA).Score += *b.BetB
		g.State(b.PlayerB).Score -= *b.BetB
		g.Log(g.RoundNumber, b.PlayerA, "battle", fmt.Sprintf("%s wins the battle and takes %d points", b.PlayerA, *b.BetB), e.now())
	default:
		g.State(b.PlayerB).Score += *b.BetA
		g.State(b.PlayerA).Score -= *b.BetA
		g.Log(g.RoundNumber, b.PlayerB, "battle", fmt.Sprintf("%s wins the battle and takes %d points", b.PlayerB, *b.BetA), e.now())
	}
}

// advanceTurn hands the turn to the next player in order, wrapping around.
func (e *Engine) advanceTurn(g *domain.Game) {
	for i, p := range g.TurnOrder {
		if p == g.CurrentTurnPlayerID {
			g.CurrentTurnPlayerID = g.TurnOrder[(i+1)%len(g.TurnOrder)]
			break
		}
	}
	g.TurnNumber++
}

// standardFinished reports whether enough players reached their goal. Two
// seaters end on the first finisher, bigger games on a majority.
func (e *Engine) standardFinished(g *domain.Game) bool {
	threshold := 1
	if n := len(g.Players); n > 2 {
		threshold = (n + 1) / 2
	}
	return g.GoalCount >= threshold
}

// finishStandard ranks everyone and closes the game.
func (e *Engine) finishStandard(g *domain.Game) {
	rankPlayers(g)
	g.Status = domain.StatusFinished
	g.CurrentTurnPlayerID = ""
	g.ActiveBattle = nil
	g.Log(g.RoundNumber, "", "finish", "the game is over", e.now())
}

// rankPlayers orders by goal time ascending with unfinished players last,
// breaking ties by score descending, and writes rank 1..N.
func rankPlayers(g *domain.Game) {
	ordered := append([]string(nil), g.Players...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := g.State(ordered[i]), g.State(ordered[j])
		switch {
		case a.GoalTime != nil && b.GoalTime == nil:
			return true
		case a.GoalTime == nil && b.GoalTime != nil:
			return false
		case a.GoalTime != nil && b.GoalTime != nil && !a.GoalTime.Equal(*b.GoalTime):
			return a.GoalTime.Before(*b.GoalTime)
		}
		return a.Score > b.Score
	})
	for i, p := range ordered {
		g.State(p).Rank = i + 1
	}
}
