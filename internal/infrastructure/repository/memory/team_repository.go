package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) error {
	ls, ok := r.store.leagueState(t.LeagueID)
	if !ok {
		return fmt.Errorf("league not found: %s", t.LeagueID)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	key := nameKey(t.Name)
	if _, exists := ls.teams[key]; exists {
		return fmt.Errorf("team already exists: %s", t.Name)
	}
	ls.teams[key] = t
	ls.teamOrder = append(ls.teamOrder, key)

	return nil
}

func (r *TeamRepository) GetByName(_ context.Context, leagueID, name string) (team.Team, bool, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return team.Team{}, false, nil
	}

	ls.mu.RLock()
	defer ls.mu.RUnlock()

	t, exists := ls.teams[nameKey(name)]
	return t, exists, nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	ls, ok := r.store.leagueState(leagueID)
	if !ok {
		return nil, nil
	}

	ls.mu.RLock()
	defer ls.mu.RUnlock()

	out := make([]team.Team, 0, len(ls.teamOrder))
	for _, key := range ls.teamOrder {
		out = append(out, ls.teams[key])
	}

	return out, nil
}
