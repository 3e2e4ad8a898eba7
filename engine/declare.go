package engine

import (
	"github.com/beka-birhanu/labyrinth-duel/domain"
)

// Declare locks in a player's one action for the round. The first
// declaration is final; once all players have declared the round moves to
// priority resolution in the same mutation.
func (e *Engine) Declare(g *domain.Game, playerID string, d domain.Declaration) error {
	if g.Status != domain.StatusPlaying || g.GameType != domain.TypeExtra {
		return ErrWrongStatus
	}
	if g.CurrentPhase != domain.PhaseDeclaration {
		return ErrWrongPhase
	}
	if !g.HasPlayer(playerID) {
		return ErrNotInGame
	}
	ps := g.State(playerID)
	if ps.HasDeclaredThisTurn {
		return ErrAlreadyDeclared
	}
	if err := e.checkDeclaration(g, playerID, &d); err != nil {
		return err
	}

	d.SubmittedAt = e.now()
	ps.DeclaredAction = &d
	ps.HasDeclaredThisTurn = true

	if e.allDeclared(g) {
		e.beginResolution(g)
	}
	return nil
}

// checkDeclaration rejects malformed action parameters up front. Rule
// violations that carry a designed penalty (sabotaging a treaty partner)
// are deliberately NOT caught here; they resolve during execution.
func (e *Engine) checkDeclaration(g *domain.Game, playerID string, d *domain.Declaration) error {
	switch d.Type {
	case domain.ActionMove:
		if d.TargetCell == nil {
			return &domain.IllegalActionError{Reason: "move needs a target cell"}
		}
		ps := g.State(playerID)
		if !ps.Position.Adjacent(*d.TargetCell) {
			return &domain.IllegalActionError{Reason: "move target must be adjacent"}
		}
	case domain.ActionScout:
		if d.TargetID == "" || d.TargetID == playerID || !g.HasPlayer(d.TargetID) {
			return &domain.IllegalActionError{Reason: "scout needs another player as target"}
		}
	case domain.ActionSabotage:
		if d.TargetID == "" || d.TargetID == playerID || !g.HasPlayer(d.TargetID) {
			return &domain.IllegalActionError{Reason: "sabotage needs another player as target"}
		}
		switch d.Sabotage {
		case domain.SabotageTrap:
			if d.TrapCell == nil {
				return &domain.IllegalActionError{Reason: "trap sabotage needs a cell"}
			}
			if !d.TrapCell.InBound(domain.GridSizeFor(g.GameType)) {
				return &domain.IllegalActionError{Reason: "trap cell outside the grid"}
			}
		case domain.SabotageConfusion, domain.SabotageInfoJam:
		default:
			return &domain.IllegalActionError{Reason: "unknown sabotage subtype"}
		}
	case domain.ActionNegotiate:
		if d.Betrayal {
			break
		}
		if d.TargetID == "" || d.TargetID == playerID || !g.HasPlayer(d.TargetID) {
			return &domain.IllegalActionError{Reason: "negotiation needs another player as target"}
		}
		if _, ok := domain.AllianceDurations[d.Negotiation]; !ok {
			return &domain.IllegalActionError{Reason: "unknown alliance type"}
		}
	case domain.ActionWait:
	default:
		return &domain.IllegalActionError{Reason: "unknown action type"}
	}
	return nil
}

func (e *Engine) allDeclared(g *domain.Game) bool {
	for _, p := range g.Players {
		if !g.State(p).HasDeclaredThisTurn {
			return false
		}
	}
	return true
}

// forceTimeoutDeclarations defaults every undecided player to wait and
// applies the timeout penalty. Runs when the declaration timer expires.
func (e *Engine) forceTimeoutDeclarations(g *domain.Game) {
	now := e.now()
	for _, p := range g.Players {
		ps := g.State(p)
		if ps.HasDeclaredThisTurn {
			continue
		}
		ps.DeclaredAction = &domain.Declaration{Type: domain.ActionWait, SubmittedAt: now}
		ps.HasDeclaredThisTurn = true
		ps.Score += domain.DeclarationTimeoutPenalty
		g.Log(g.RoundNumber, p, "timeout", p+" ran out of time and waits this round", now)
	}
}
