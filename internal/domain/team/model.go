package team

import (
	"fmt"
	"time"
)

// Team is one drafting franchise inside a league, identified by name
// unique within that league.
type Team struct {
	ID       string
	LeagueID string
	Name     string
	IsAdmin  bool
	JoinedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
