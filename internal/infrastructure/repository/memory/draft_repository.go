package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

type DraftRepository struct {
	store *Store
}

func NewDraftRepository(store *Store) *DraftRepository {
	return &DraftRepository{store: store}
}

// CommitPick is the per-league critical section: under the league's write
// lock it re-checks the pick index and the player's drafted status, then
// assigns the player and advances the index as one step. Concurrent commits
// against the same index or player lose with ErrPickConflict.
func (r *DraftRepository) CommitPick(_ context.Context, leagueID string, expectedPickIndex int, playerID, teamName string, pickedAt time.Time) (player.Player, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return player.Player{}, fmt.Errorf("league not found: %s", leagueID)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.league.CurrentPickIndex != expectedPickIndex {
		return player.Player{}, fmt.Errorf("%w: pick index moved from %d to %d",
			draft.ErrPickConflict, expectedPickIndex, ls.league.CurrentPickIndex)
	}

	p, exists := ls.players[playerID]
	if !exists {
		return player.Player{}, fmt.Errorf("%w: unknown player %s", draft.ErrPlayerUnavailable, playerID)
	}
	if p.Drafted() {
		return player.Player{}, fmt.Errorf("%w: player %s already drafted by %s",
			draft.ErrPickConflict, playerID, p.DraftedBy)
	}

	p.DraftedBy = teamName
	p.DraftedAtPick = expectedPickIndex
	p.DraftedAt = pickedAt
	ls.players[playerID] = p

	ls.league.CurrentPickIndex++
	ls.league.DraftStarted = true

	return p, nil
}
