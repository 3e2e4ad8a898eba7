package domain

import "time"

// ActionType is the closed set of declarable actions in extra mode.
type ActionType string

const (
	ActionMove      ActionType = "move"
	ActionScout     ActionType = "scout"
	ActionSabotage  ActionType = "sabotage"
	ActionNegotiate ActionType = "negotiate"
	ActionWait      ActionType = "wait"
)

// SabotageKind selects the effect of a sabotage declaration.
type SabotageKind string

const (
	SabotageTrap      SabotageKind = "trap"
	SabotageConfusion SabotageKind = "confusion"
	SabotageInfoJam   SabotageKind = "info_jam"
)

// Declaration is a player's committed action choice for one round.
// Only the fields relevant to Type are populated.
type Declaration struct {
	Type        ActionType   `json:"type"`
	TargetID    string       `json:"targetId,omitempty"`    // scout, sabotage, negotiate proposals
	TargetCell  *Cell        `json:"targetCell,omitempty"`  // move destination
	Sabotage    SabotageKind `json:"sabotage,omitempty"`    // sabotage subtype
	TrapCell    *Cell        `json:"trapCell,omitempty"`    // trap placement on the target's maze
	Negotiation AllianceType `json:"negotiation,omitempty"` // proposed alliance type
	Condition   string       `json:"condition,omitempty"`   // free-text rider on a proposal
	Betrayal    bool         `json:"betrayal,omitempty"`    // negotiate subtype with no target
	SubmittedAt time.Time    `json:"submittedAt"`
}

// NegotiationOffer is a pending alliance proposal sitting in the target's
// inbox until accepted, rejected, or invalidated by a competing alliance.
type NegotiationOffer struct {
	ID         string       `json:"id"`
	FromID     string       `json:"fromId"`
	Type       AllianceType `json:"type"`
	Condition  string       `json:"condition,omitempty"`
	OfferRound int          `json:"offerRound"`
}

// SabotageEffect is a timed status attached to a player. It is pruned once
// ExpiryRound falls behind the current round.
type SabotageEffect struct {
	Type        SabotageKind `json:"type"`
	SourceID    string       `json:"sourceId"`
	ExpiryRound int          `json:"expiryRound"`
}

// ScoutRecord is a private observation in the scouting player's log.
type ScoutRecord struct {
	TargetID string    `json:"targetId"`
	Position Cell      `json:"position"`
	Round    int       `json:"round"`
	SeenAt   time.Time `json:"seenAt"`
}
