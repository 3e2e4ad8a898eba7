package domain

import "fmt"

// ValidationError reports a rejected maze submission or wall mutation.
// Invariant names the specific rule that failed so clients can surface it.
type ValidationError struct {
	Invariant string
	Detail    string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return "validation failed: " + e.Invariant
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Invariant, e.Detail)
}

// Invariant identifiers used in ValidationError.
const (
	InvariantWallCount      = "wallCount"
	InvariantPathExists     = "pathExists"
	InvariantStartGoal      = "startNotGoal"
	InvariantWallAddress    = "wallAddressable"
	InvariantWallBudget     = "wallBudget"
	InvariantCellInBound    = "cellInBound"
	InvariantAlreadyPresent = "mazeAlreadySubmitted"
)

// IllegalActionError reports a game command that the rules reject outright.
// Score penalties are never carried here; the rules that fine a player
// apply the penalty to the game state directly.
type IllegalActionError struct {
	Reason string
}

func (e *IllegalActionError) Error() string {
	return "illegal action: " + e.Reason
}
