package engine

import (
	"fmt"

	"github.com/beka-birhanu/labyrinth-duel/domain"
	"github.com/google/uuid"
)

// RespondToOffer resolves a pending negotiation offer in the responder's
// inbox. Acceptance only binds when neither party holds a live alliance, so
// racing acceptances resolve to whoever commits first; the loser gets
// ErrAlreadyAllied. Rejection simply drops the offer.
func (e *Engine) RespondToOffer(g *domain.Game, playerID, offerID string, accept bool) error {
	if g.Status != domain.StatusPlaying || g.GameType != domain.TypeExtra {
		return ErrWrongStatus
	}
	if !g.HasPlayer(playerID) {
		return ErrNotInGame
	}
	ps := g.State(playerID)

	var offer *domain.NegotiationOffer
	idx := -1
	for i := range ps.NegotiationOffers {
		if ps.NegotiationOffers[i].ID == offerID {
			offer = &ps.NegotiationOffers[i]
			idx = i
			break
		}
	}
	if offer == nil {
		return ErrOfferNotFound
	}
	from := offer.FromID
	kind := offer.Type
	ps.NegotiationOffers = append(ps.NegotiationOffers[:idx], ps.NegotiationOffers[idx+1:]...)

	if !accept {
		return nil
	}
	if g.ActiveAllianceOf(playerID) != nil || g.ActiveAllianceOf(from) != nil {
		return ErrAlreadyAllied
	}

	al := &domain.Alliance{
		ID:             uuid.NewString(),
		Members:        []string{from, playerID},
		Type:           kind,
		StartRound:     g.RoundNumber,
		DurationRounds: domain.AllianceDurations[kind],
		Status:         domain.AllianceActive,
	}
	g.Alliances = append(g.Alliances, al)
	for _, m := range al.Members {
		st := g.State(m)
		st.AllianceID = al.ID
		st.EverAllied = true
	}
	g.Log(g.RoundNumber, playerID, "alliance",
		fmt.Sprintf("%s and %s formed a %s pact", from, playerID, kind), e.now())
	return nil
}
