package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) ListAvailable(_ context.Context, leagueID string, position player.Position) ([]player.Player, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return nil, nil
	}

	ls.mu.RLock()
	out := make([]player.Player, 0, len(ls.players))
	for _, p := range ls.players {
		if p.Drafted() {
			continue
		}
		if position != "" && p.Position != position {
			continue
		}
		out = append(out, p)
	}
	ls.mu.RUnlock()

	sortByRankThenName(out)
	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, leagueID, playerID string) (player.Player, bool, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return player.Player{}, false, nil
	}

	ls.mu.RLock()
	defer ls.mu.RUnlock()

	p, exists := ls.players[playerID]
	return p, exists, nil
}

func (r *PlayerRepository) ListDrafted(_ context.Context, leagueID string, limit int) ([]player.Player, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return nil, nil
	}

	ls.mu.RLock()
	out := make([]player.Player, 0, len(ls.players))
	for _, p := range ls.players {
		if p.Drafted() {
			out = append(out, p)
		}
	}
	ls.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].DraftedAtPick > out[j].DraftedAtPick
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, leagueID, teamName string) ([]player.Player, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return nil, nil
	}

	key := nameKey(teamName)
	ls.mu.RLock()
	out := make([]player.Player, 0, 16)
	for _, p := range ls.players {
		if p.Drafted() && nameKey(p.DraftedBy) == key {
			out = append(out, p)
		}
	}
	ls.mu.RUnlock()

	// Insertion order equals pick order.
	sort.Slice(out, func(i, j int) bool {
		return out[i].DraftedAtPick < out[j].DraftedAtPick
	})

	return out, nil
}

func (r *PlayerRepository) Replace(_ context.Context, leagueID string, players []player.Player) (player.BulkLoadResult, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return player.BulkLoadResult{}, fmt.Errorf("league not found: %s", leagueID)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	var result player.BulkLoadResult
	incoming := make(map[string]struct{}, len(players))

	next := make(map[string]player.Player, len(players))
	nextIdentity := make(map[string]string, len(players))

	for _, p := range players {
		key := p.IdentityKey()
		if _, dup := incoming[key]; dup {
			result.Skipped++
			continue
		}
		incoming[key] = struct{}{}

		if existingID, exists := ls.identity[key]; exists {
			// Keep the existing record so drafted facts and the public ID
			// survive the replace; only rank refreshes.
			existing := ls.players[existingID]
			existing.Rank = p.Rank
			next[existingID] = existing
			nextIdentity[key] = existingID
			result.Updated++
			continue
		}

		next[p.ID] = p
		nextIdentity[key] = p.ID
		result.Inserted++
	}

	// Drafted players missing from the incoming set are preserved, never
	// deleted, and surfaced as warnings.
	for _, p := range ls.players {
		if !p.Drafted() {
			continue
		}
		if _, matched := incoming[p.IdentityKey()]; matched {
			continue
		}
		next[p.ID] = p
		nextIdentity[p.IdentityKey()] = p.ID
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("drafted player %q (%s) missing from upload; kept", p.Name, p.Position))
	}
	sort.Strings(result.Warnings)

	ls.players = next
	ls.identity = nextIdentity

	return result, nil
}

func (r *PlayerRepository) Merge(_ context.Context, leagueID string, players []player.Player) (player.BulkLoadResult, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return player.BulkLoadResult{}, fmt.Errorf("league not found: %s", leagueID)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	var result player.BulkLoadResult
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		key := p.IdentityKey()
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}

		if _, exists := ls.identity[key]; exists {
			result.Skipped++
			continue
		}
		ls.players[p.ID] = p
		ls.identity[key] = p.ID
		result.Inserted++
	}

	return result, nil
}

func sortByRankThenName(players []player.Player) {
	sort.Slice(players, func(i, j int) bool {
		a, b := players[i], players[j]
		// Unranked players sort after ranked ones.
		aUnranked, bUnranked := a.Rank == 0, b.Rank == 0
		if aUnranked != bUnranked {
			return bUnranked
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
