package domain

// AllianceType is the pact variant negotiated between two players.
type AllianceType string

const (
	AllianceNonAggression      AllianceType = "non_aggression"
	AllianceInformationSharing AllianceType = "information_sharing"
	AllianceFullAlliance       AllianceType = "full_alliance"
)

// AllianceStatus tracks whether a pact is still honored.
type AllianceStatus string

const (
	AllianceActive   AllianceStatus = "active"
	AllianceBetrayed AllianceStatus = "betrayed"
	AllianceExpired  AllianceStatus = "expired"
)

// Alliance is a pact between two players. DurationRounds of zero means the
// pact never expires on its own (full alliances).
type Alliance struct {
	ID             string         `json:"id"`
	Members        []string       `json:"members"`
	Type           AllianceType   `json:"type"`
	StartRound     int            `json:"startRound"`
	DurationRounds int            `json:"durationRounds"`
	Status         AllianceStatus `json:"status"`
}

// HasMember reports whether playerID is part of the alliance.
func (a *Alliance) HasMember(playerID string) bool {
	for _, m := range a.Members {
		if m == playerID {
			return true
		}
	}
	return false
}

// OtherMember returns the partner of playerID, or "" if playerID is not a
// member.
func (a *Alliance) OtherMember(playerID string) string {
	if !a.HasMember(playerID) {
		return ""
	}
	for _, m := range a.Members {
		if m != playerID {
			return m
		}
	}
	return ""
}

// Expired reports whether the pact has run out by round. Betrayed pacts are
// dead regardless of duration; infinite pacts never expire.
func (a *Alliance) Expired(round int) bool {
	if a.Status == AllianceBetrayed {
		return true
	}
	if a.DurationRounds == 0 {
		return false
	}
	return a.StartRound+a.DurationRounds <= round
}

// Trap is a timed hazard on a maze cell, placed by a non-owner. It is
// pruned once ExpiryRound falls behind the current round.
type Trap struct {
	ID          string `json:"id"`
	Cell        Cell   `json:"cell"`
	OwnerID     string `json:"ownerId"`     // the saboteur who placed it
	MazeOwnerID string `json:"mazeOwnerId"` // whose maze the cell belongs to
	ExpiryRound int    `json:"expiryRound"`
}
