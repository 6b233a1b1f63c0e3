package user

// Principal is the resolved identity attached to authorized requests:
// which league the caller belongs to, which team they act as, and whether
// they may administer the league. The engine trusts this resolution and
// never inspects raw credentials.
type Principal struct {
	LeagueID string
	TeamName string
	IsAdmin  bool
}

func (p Principal) Valid() bool {
	return p.LeagueID != "" && p.TeamName != ""
}
