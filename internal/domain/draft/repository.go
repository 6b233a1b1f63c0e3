package draft

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

// Repository is the atomic pick-commit contract. A commit assigns the player
// to the team, stamps the pick index, and advances the league's pick counter
// by exactly one, all as one serialized step per league.
type Repository interface {
	// CommitPick performs a compare-and-commit: it succeeds only while the
	// league's current pick index still equals expectedPickIndex and the
	// player is still undrafted. Otherwise it returns ErrPickConflict and
	// changes nothing.
	CommitPick(ctx context.Context, leagueID string, expectedPickIndex int, playerID, teamName string, pickedAt time.Time) (player.Player, error)
}
