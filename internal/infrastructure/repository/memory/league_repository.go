package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := nameKey(l.Name)
	if _, exists := r.store.leagueByName[key]; exists {
		return fmt.Errorf("%w: %s", league.ErrLeagueExists, l.Name)
	}

	r.store.leagues[l.ID] = &leagueState{
		league:   cloneLeague(l),
		teams:    make(map[string]team.Team),
		players:  make(map[string]player.Player),
		identity: make(map[string]string),
	}
	r.store.leagueByName[key] = l.ID

	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return league.League{}, false, nil
	}

	ls.mu.RLock()
	defer ls.mu.RUnlock()

	return cloneLeague(ls.league), true, nil
}

func (r *LeagueRepository) GetByName(_ context.Context, name string) (league.League, bool, error) {
	r.store.mu.RLock()
	leagueID, ok := r.store.leagueByName[nameKey(name)]
	r.store.mu.RUnlock()
	if !ok {
		return league.League{}, false, nil
	}

	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return league.League{}, false, nil
	}

	ls.mu.RLock()
	defer ls.mu.RUnlock()

	return cloneLeague(ls.league), true, nil
}

func (r *LeagueRepository) UpdateConfig(_ context.Context, leagueID string, update league.ConfigUpdate) error {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return fmt.Errorf("league not found: %s", leagueID)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if update.DraftOrder != nil {
		ls.league.DraftOrder = append([]string(nil), update.DraftOrder...)
	}
	if update.PositionLimits != nil {
		limits := make(map[string]int, len(update.PositionLimits))
		for k, v := range update.PositionLimits {
			limits[k] = v
		}
		ls.league.PositionLimits = limits
	}
	if update.FlexEligible != nil {
		ls.league.FlexEligible = append([]string(nil), update.FlexEligible...)
	}

	return nil
}
