package engine

import (
	"github.com/beka-birhanu/labyrinth-duel/domain"
)

// Finalize closes the game and settles all end-of-game scoring. Calling it
// on an already finished game changes nothing. For extra mode the settling
// order matters: time penalties, ranks, placement bonuses, end-condition
// objectives, loyalty and solo bonuses, then full-alliance pooling.
func (e *Engine) Finalize(g *domain.Game) {
	if g.Status == domain.StatusFinished {
		return
	}
	if g.GameType == domain.TypeStandard {
		e.finishStandard(g)
		return
	}

	e.applyTimePenalties(g)
	rankPlayers(g)
	e.applyPlacementBonuses(g)
	e.evaluateEndObjectives(g)
	e.applyLoyaltyAndSoloBonuses(g)
	e.poolFullAlliances(g)

	g.Status = domain.StatusFinished
	g.CurrentPhase = ""
	g.CurrentActionPlayerID = ""
	g.RoundActionOrder = nil
	g.PhaseTimerEnd = nil
	g.Log(g.RoundNumber, "", "finish", "the game is over", e.now())
}

// applyTimePenalties docks players who overran their personal thinking
// budget and snapshots the result for the alliance pooling step.
func (e *Engine) applyTimePenalties(g *domain.Game) {
	limit := int(domain.ExtraModePersonalTimeLimit.Seconds())
	step := -domain.PersonalTimePenaltyPoints
	for _, p := range g.Players {
		ps := g.State(p)
		if overage := ps.PersonalTimeUsed - limit; overage > 0 {
			ps.Score -= (overage / domain.PersonalTimePenaltyInterval) * step
		}
		ps.ScoreBeforeAllianceBonus = ps.Score
	}
}

func (e *Engine) applyPlacementBonuses(g *domain.Game) {
	for _, p := range g.Players {
		ps := g.State(p)
		if ps.GoalTime == nil {
			continue
		}
		if idx := ps.Rank - 1; idx >= 0 && idx < len(domain.GoalPlacementBonus) {
			ps.Score += domain.GoalPlacementBonus[idx]
		}
	}
}

// evaluateEndObjectives settles the objectives that can only be judged
// against final ranks and the closing alliance state.
func (e *Engine) evaluateEndObjectives(g *domain.Game) {
	last := len(g.Players)
	for _, p := range g.Players {
		ps := g.State(p)
		obj := ps.SecretObjective
		if obj == nil || obj.Achieved || !obj.GameEndCondition {
			continue
		}

		achieved := false
		switch obj.ID {
		case "COMP_TARGET_LAST":
			if t := g.State(obj.TargetPlayerID); t != nil && t.Rank == last {
				achieved = true
			}
		case "COMP_SOLO_TOP3":
			achieved = ps.Rank <= 3 && !ps.EverAllied
		case "COOP_ALLY_TOP2":
			al := g.AllianceBetween(p, obj.TargetPlayerID)
			if al != nil {
				t := g.State(obj.TargetPlayerID)
				achieved = ps.Rank <= 2 && t != nil && t.Rank <= 2
			}
		case "SAB_BETRAY_AND_WIN":
			achieved = len(ps.BetrayedAllies) > 0
			for _, b := range ps.BetrayedAllies {
				t := g.State(b)
				if t == nil || t.Rank <= ps.Rank {
					achieved = false
					break
				}
			}
		}
		if achieved {
			obj.Achieved = true
			ps.Score += obj.Points
		}
	}
}

// applyLoyaltyAndSoloBonuses rewards players whose surviving ally outranked
// them, and rank-1 players who went the whole game without a pact.
func (e *Engine) applyLoyaltyAndSoloBonuses(g *domain.Game) {
	for _, p := range g.Players {
		ps := g.State(p)
		if al := g.ActiveAllianceOf(p); al != nil {
			partner := g.State(al.OtherMember(p))
			if partner != nil && partner.Rank < ps.Rank {
				ps.Score += domain.AllianceLoyaltyBonus
			}
		}
		if ps.Rank == 1 && !ps.EverAllied {
			ps.Score += domain.SoloWinnerBonus
		}
	}
}

// poolFullAlliances redistributes score between members of each surviving
// full alliance: half of each member's pre-bonus score goes into a shared
// pool split evenly, the other half stays theirs.
func (e *Engine) poolFullAlliances(g *domain.Game) {
	for _, al := range g.Alliances {
		if al.Status != domain.AllianceActive || al.Type != domain.AllianceFullAlliance {
			continue
		}
		sum := 0
		for _, m := range al.Members {
			sum += g.State(m).ScoreBeforeAllianceBonus
		}
		pool := sum / 2
		share := pool / len(al.Members)
		for _, m := range al.Members {
			ms := g.State(m)
			ms.Score = ms.ScoreBeforeAllianceBonus/2 + share
		}
	}
}
