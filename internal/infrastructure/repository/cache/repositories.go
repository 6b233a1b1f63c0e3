package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	basecache "github.com/riskibarqy/fantasy-draft/internal/platform/cache"
)

// PlayerRepository caches the pool listings. Reads that feed pick validation
// (GetByID, ListByTeam) always hit the source of truth; every write path,
// including pick commits, must call InvalidateLeague so stale availability
// never serves on the cached paths.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListAvailable(ctx context.Context, leagueID string, position player.Position) ([]player.Player, error) {
	key := "player:" + leagueID + ":available:" + string(position)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListAvailable(ctx, leagueID, position)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, leagueID, playerID string) (player.Player, bool, error) {
	// Pick validation reads this; always hit the source of truth.
	return r.next.GetByID(ctx, leagueID, playerID)
}

func (r *PlayerRepository) ListDrafted(ctx context.Context, leagueID string, limit int) ([]player.Player, error) {
	key := "player:" + leagueID + ":drafted:" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListDrafted(ctx, leagueID, limit)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, leagueID, teamName string) ([]player.Player, error) {
	// Roster-room validation counts this roster before a commit. A cached
	// entry stored by a load that raced a commit's invalidation would let a
	// team with back-to-back picks overfill a slot, so this stays uncached
	// like GetByID.
	return r.next.ListByTeam(ctx, leagueID, teamName)
}

func (r *PlayerRepository) Replace(ctx context.Context, leagueID string, players []player.Player) (player.BulkLoadResult, error) {
	result, err := r.next.Replace(ctx, leagueID, players)
	if err != nil {
		return player.BulkLoadResult{}, err
	}
	r.InvalidateLeague(ctx, leagueID)
	return result, nil
}

func (r *PlayerRepository) Merge(ctx context.Context, leagueID string, players []player.Player) (player.BulkLoadResult, error) {
	result, err := r.next.Merge(ctx, leagueID, players)
	if err != nil {
		return player.BulkLoadResult{}, err
	}
	r.InvalidateLeague(ctx, leagueID)
	return result, nil
}

func (r *PlayerRepository) InvalidateLeague(ctx context.Context, leagueID string) {
	r.cache.DeletePrefix(ctx, "player:"+leagueID+":")
}

// DraftRepository drops cached pool reads after every successful commit.
type DraftRepository struct {
	next    draft.Repository
	players *PlayerRepository
}

func NewDraftRepository(next draft.Repository, players *PlayerRepository) *DraftRepository {
	return &DraftRepository{next: next, players: players}
}

func (r *DraftRepository) CommitPick(ctx context.Context, leagueID string, expectedPickIndex int, playerID, teamName string, pickedAt time.Time) (player.Player, error) {
	picked, err := r.next.CommitPick(ctx, leagueID, expectedPickIndex, playerID, teamName, pickedAt)
	if err != nil {
		return player.Player{}, err
	}
	r.players.InvalidateLeague(ctx, leagueID)
	return picked, nil
}
