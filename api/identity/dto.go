package identity

// SessionResponse carries a freshly minted guest session.
type SessionResponse struct {
	PlayerID string `json:"player_id"`
	Token    string `json:"token"`
}
