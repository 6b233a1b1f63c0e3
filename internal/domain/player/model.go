package player

import (
	"fmt"
	"strings"
	"time"
)

// Position represents football roster position categories used in draft rules.
type Position string

const (
	PositionQuarterback  Position = "QB"
	PositionRunningBack  Position = "RB"
	PositionWideReceiver Position = "WR"
	PositionTightEnd     Position = "TE"
	PositionKicker       Position = "K"
	PositionDefense      Position = "DST"

	// PositionFlex is not a player position; it is the roster bucket that
	// accepts eligible overflow positions once exact slots are filled.
	PositionFlex Position = "FLEX"
)

var AllPositions = map[Position]struct{}{
	PositionQuarterback:  {},
	PositionRunningBack:  {},
	PositionWideReceiver: {},
	PositionTightEnd:     {},
	PositionKicker:       {},
	PositionDefense:      {},
}

// ParsePosition normalizes a raw position code from uploads or requests.
func ParsePosition(raw string) (Position, error) {
	pos := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := AllPositions[pos]; !ok {
		return "", fmt.Errorf("invalid player position: %q", raw)
	}
	return pos, nil
}

// Player is a draftable athlete in a league pool.
type Player struct {
	ID       string
	LeagueID string
	Name     string
	Position Position
	Rank     int

	// DraftedBy and DraftedAtPick are set exactly once, by the pick commit.
	DraftedBy     string
	DraftedAtPick int
	DraftedAt     time.Time
}

// Drafted reports whether the player has been assigned to a team.
func (p Player) Drafted() bool {
	return p.DraftedBy != ""
}

// IdentityKey is the bulk-load reconciliation key.
func (p Player) IdentityKey() string {
	return IdentityKey(p.Name, p.Position)
}

func IdentityKey(name string, pos Position) string {
	return strings.ToLower(strings.TrimSpace(name)) + "::" + string(pos)
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.LeagueID == "" {
		return fmt.Errorf("player league id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Rank < 0 {
		return fmt.Errorf("player rank cannot be negative")
	}

	return nil
}
