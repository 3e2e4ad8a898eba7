package engine

import (
	"fmt"

	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/google/uuid"
)

// ExecuteAction resolves the current actor's declared action. Duplicate
// calls for an actor whose action already ran are no-ops, so any client may
// drive execution without double-applying effects.
func (e *Engine) ExecuteAction(g *domain.Game) error {
	if g.Status != domain.StatusPlaying || g.GameType != domain.TypeExtra {
		return ErrWrongStatus
	}
	if g.CurrentPhase != domain.PhaseActionExecution || g.CurrentActionPlayerID == "" {
		return ErrWrongPhase
	}
	actor := g.CurrentActionPlayerID
	ps := g.State(actor)
	if ps.ActionExecutedThisTurn || ps.DeclaredAction == nil {
		return nil
	}

	d := *ps.DeclaredAction
	switch d.Type {
	case domain.ActionMove:
		e.executeMove(g, actor, ps, d)
	case domain.ActionScout:
		e.executeScout(g, actor, ps, d)
	case domain.ActionSabotage:
		e.executeSabotage(g, actor, ps, d)
	case domain.ActionNegotiate:
		e.executeNegotiate(g, actor, ps, d)
	case domain.ActionWait:
		g.Log(g.RoundNumber, actor, "wait", actor+" holds position", e.now())
	}
	ps.ActionExecutedThisTurn = true

	deadline := e.now().Add(domain.ActionExecutionDelay)
	g.PhaseTimerEnd = &deadline
	e.CheckTermination(g)
	return nil
}

// AdvanceActor moves execution past fromActor once their action resolved.
// The actor identity gate makes duplicate advance attempts from racing
// clients harmless.
func (e *Engine) AdvanceActor(g *domain.Game, fromActor string) error {
	if g.Status != domain.StatusPlaying || g.GameType != domain.TypeExtra {
		return ErrWrongStatus
	}
	if g.CurrentPhase != domain.PhaseActionExecution || g.CurrentActionPlayerID != fromActor {
		return nil
	}
	if !g.State(fromActor).ActionExecutedThisTurn {
		if err := e.ExecuteAction(g); err != nil {
			return err
		}
		if g.Status == domain.StatusFinished {
			return nil
		}
	}

	idx := -1
	for i, p := range g.RoundActionOrder {
		if p == fromActor {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(g.RoundActionOrder) {
		e.enterResultPublication(g)
		return nil
	}
	g.CurrentActionPlayerID = g.RoundActionOrder[idx+1]
	deadline := e.now().Add(domain.ActionExecutionDelay)
	g.PhaseTimerEnd = &deadline
	return nil
}

func (e *Engine) executeMove(g *domain.Game, actor string, ps *domain.PlayerState, d domain.Declaration) {
	now := e.now()
	target := *d.TargetCell
	if ps.ConsumeEffect(domain.SabotageConfusion, g.RoundNumber) {
		if e.rng.Float64() < domain.ConfusionSuccessChance {
			dir := domain.Directions[e.rng.Intn(len(domain.Directions))]
			target = ps.Position.Step(dir)
			g.Log(g.RoundNumber, actor, "confusion", actor+" stumbles in confusion", now)
		}
	}

	maze := g.AssignedMaze(actor)
	if trap := g.TrapAt(ps.AssignedMazeOwnerID, target, actor, g.RoundNumber); trap != nil {
		ps.IsTurnSkipped = true
		g.State(trap.OwnerID).Score += domain.TrapTriggerPoints
		g.Log(g.RoundNumber, actor, "trap", fmt.Sprintf("%s walked into a trap set by %s", actor, trap.OwnerID), now)
		return
	}
	if !target.InBound(maze.GridSize) || maze.Blocked(ps.Position, target) || !ps.Position.Adjacent(target) {
		g.Log(g.RoundNumber, actor, "move", actor+" bumps into a wall and stays put", now)
		return
	}

	ps.Position = target
	e.awardDiscovery(g, ps, target)
	if target == maze.Goal && ps.GoalTime == nil {
		e.stampGoal(g, actor, ps, maze, target)
		e.checkFirstGoalObjective(g, actor, ps)
	} else {
		g.Log(g.RoundNumber, actor, "move", actor+" moves", now)
	}
}

// checkFirstGoalObjective awards the race objective to an unallied player
// who reached their goal before anyone else.
func (e *Engine) checkFirstGoalObjective(g *domain.Game, actor string, ps *domain.PlayerState) {
	obj := ps.SecretObjective
	if obj == nil || obj.Achieved || !obj.ImmediateCheckOnGoal {
		return
	}
	if g.GoalCount == 1 && ps.AllianceID == "" {
		obj.Achieved = true
		ps.Score += obj.Points
		g.Log(g.RoundNumber, actor, "objective", actor+" completed a secret objective", e.now())
	}
}

func (e *Engine) executeScout(g *domain.Game, actor string, ps *domain.PlayerState, d domain.Declaration) {
	now := e.now()
	targetState := g.State(d.TargetID)
	ps.ScoutLogs = append(ps.ScoutLogs, domain.ScoutRecord{
		TargetID: d.TargetID,
		Position: targetState.Position,
		Round:    g.RoundNumber,
		SeenAt:   now,
	})
	ps.Score += domain.ScoutPoints
	if e.rng.Float64() < domain.ScoutNoticeChance {
		g.Log(g.RoundNumber, actor, "scout", fmt.Sprintf("%s noticed someone watching them", d.TargetID), now)
	} else {
		g.Log(g.RoundNumber, actor, "scout", actor+" gathered intelligence", now)
	}
}

func (e *Engine) executeSabotage(g *domain.Game, actor string, ps *domain.PlayerState, d domain.Declaration) {
	now := e.now()
	if al := g.AllianceBetween(actor, d.TargetID); al != nil && al.Type == domain.AllianceNonAggression {
		ps.Score += domain.AllianceViolationPenalty
		g.Log(g.RoundNumber, actor, "sabotage", actor+" violated a non-aggression pact and pays the price", now)
		return
	}

	success := true
	victim := d.TargetID
	switch d.Sabotage {
	case domain.SabotageTrap:
		victimState := g.State(d.TargetID)
		g.Traps = append(g.Traps, &domain.Trap{
			ID:          uuid.NewString(),
			Cell:        *d.TrapCell,
			OwnerID:     actor,
			MazeOwnerID: victimState.AssignedMazeOwnerID,
			ExpiryRound: g.RoundNumber + domain.TrapLifetimeRounds,
		})
		g.Log(g.RoundNumber, actor, "sabotage", "a trap was placed somewhere", now)
	case domain.SabotageConfusion:
		if e.rng.Float64() >= domain.ConfusionSuccessChance {
			success = false
			victim = actor
		}
		g.State(victim).SabotageEffects = append(g.State(victim).SabotageEffects, domain.SabotageEffect{
			Type:        domain.SabotageConfusion,
			SourceID:    actor,
			ExpiryRound: g.RoundNumber,
		})
		if success {
			g.Log(g.RoundNumber, actor, "sabotage", d.TargetID+" was struck by confusion", now)
		} else {
			g.Log(g.RoundNumber, actor, "sabotage", actor+"'s sabotage backfired", now)
		}
	case domain.SabotageInfoJam:
		g.State(d.TargetID).SabotageEffects = append(g.State(d.TargetID).SabotageEffects, domain.SabotageEffect{
			Type:        domain.SabotageInfoJam,
			SourceID:    actor,
			ExpiryRound: g.RoundNumber,
		})
		g.Log(g.RoundNumber, actor, "sabotage", d.TargetID+"'s communications were jammed", now)
	}

	if success {
		ps.Score += domain.SabotageSuccessPoints
		e.advanceSabotageObjective(g, actor, ps)
	}
}

// advanceSabotageObjective counts a successful sabotage toward the
// repeat-saboteur objective and triggers it at the threshold.
func (e *Engine) advanceSabotageObjective(g *domain.Game, actor string, ps *domain.PlayerState) {
	obj := ps.SecretObjective
	if obj == nil || obj.Achieved || obj.CounterMax == 0 {
		return
	}
	obj.Progress++
	if obj.Progress >= obj.CounterMax {
		obj.Achieved = true
		ps.Score += obj.Points
		g.Log(g.RoundNumber, actor, "objective", actor+" completed a secret objective", e.now())
	}
}

func (e *Engine) executeNegotiate(g *domain.Game, actor string, ps *domain.PlayerState, d domain.Declaration) {
	now := e.now()
	if d.Betrayal {
		al := g.ActiveAllianceOf(actor)
		if al == nil {
			g.Log(g.RoundNumber, actor, "negotiate", actor+" has no alliance to betray", now)
			return
		}
		al.Status = domain.AllianceBetrayed
		for _, m := range al.Members {
			g.State(m).AllianceID = ""
			if m != actor {
				ps.BetrayedAllies = append(ps.BetrayedAllies, m)
			}
		}
		ps.TemporaryPriorityBoost += domain.BetrayalPriorityBoost
		g.Log(g.RoundNumber, actor, "betrayal", actor+" betrayed their alliance", now)
		return
	}

	target := g.State(d.TargetID)
	target.NegotiationOffers = append(target.NegotiationOffers, domain.NegotiationOffer{
		ID:         uuid.NewString(),
		FromID:     actor,
		Type:       d.Negotiation,
		Condition:  d.Condition,
		OfferRound: g.RoundNumber,
	})
	g.Log(g.RoundNumber, actor, "negotiate", fmt.Sprintf("%s extends an offer to %s", actor, d.TargetID), now)
}
