package league

import (
	"errors"
	"fmt"
	"time"
)

var ErrLeagueExists = errors.New("league already exists")

// League is an isolated draft instance with its own teams, players and
// configuration. DraftOrder, PositionLimits and FlexEligible are mutable by
// the admin; CurrentPickIndex only ever moves forward, one successful pick at
// a time. FlexEligible holds normalized position codes; empty means the
// default flex set applies.
type League struct {
	ID               string
	Name             string
	PasswordHash     string
	AdminTeam        string
	DraftOrder       []string
	PositionLimits   map[string]int
	FlexEligible     []string
	CurrentPickIndex int
	DraftStarted     bool
	CreatedAt        time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.PasswordHash == "" {
		return fmt.Errorf("league password hash is required")
	}
	if l.AdminTeam == "" {
		return fmt.Errorf("league admin team is required")
	}
	if l.CurrentPickIndex < 0 {
		return fmt.Errorf("current pick index cannot be negative")
	}

	return nil
}
