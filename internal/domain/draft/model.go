package draft

// State is the read-only draft view served to polling clients. CurrentTeam is
// derived from the order and pick index; it is empty until the draft is
// configured.
type State struct {
	LeagueID         string
	DraftOrder       []string
	PositionLimits   map[string]int
	FlexEligible     []string
	CurrentPickIndex int
	CurrentTeam      string
}

// Configured reports whether picks can be accepted.
func (s State) Configured() bool {
	return len(s.DraftOrder) > 0
}
