package engine

import (
	"sort"

	"github.com/beka-birhanu/labyrinth-duel/domain"
)

// beginResolution closes the declaration phase, orders the declared actions
// and steps into execution. Priority boosts are spent here whether or not
// they changed the order.
func (e *Engine) beginResolution(g *domain.Game) {
	g.CurrentPhase = domain.PhasePriorityResolution
	order := e.actionOrder(g)
	for _, p := range g.Players {
		g.State(p).TemporaryPriorityBoost = 0
	}

	if len(order) == 0 {
		e.enterChat(g)
		return
	}
	g.RoundActionOrder = order
	g.CurrentActionPlayerID = order[0]
	g.CurrentPhase = domain.PhaseActionExecution
	deadline := e.now().Add(domain.ActionExecutionDelay)
	g.PhaseTimerEnd = &deadline
}

// actionOrder sorts declared players by action weight, lower first. A
// betrayal boost subtracts from the weight; remaining ties go to the
// earlier submission.
func (e *Engine) actionOrder(g *domain.Game) []string {
	order := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if g.State(p).DeclaredAction != nil {
			order = append(order, p)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := g.State(order[i]), g.State(order[j])
		wa := domain.ActionPriority[a.DeclaredAction.Type] - a.TemporaryPriorityBoost
		wb := domain.ActionPriority[b.DeclaredAction.Type] - b.TemporaryPriorityBoost
		if wa != wb {
			return wa < wb
		}
		return a.DeclaredAction.SubmittedAt.Before(b.DeclaredAction.SubmittedAt)
	})
	return order
}
