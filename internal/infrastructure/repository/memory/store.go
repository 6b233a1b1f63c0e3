package memory

import (
	"strings"
	"sync"

	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
)

// Store holds all league-scoped draft state in memory. Each league owns its
// own lock, so the pick-commit critical section in one league never blocks
// another. The outer lock only guards the league maps themselves.
type Store struct {
	mu           sync.RWMutex
	leagues      map[string]*leagueState
	leagueByName map[string]string
}

type leagueState struct {
	mu        sync.RWMutex
	league    league.League
	teams     map[string]team.Team
	teamOrder []string
	players   map[string]player.Player
	identity  map[string]string
}

func NewStore() *Store {
	return &Store{
		leagues:      make(map[string]*leagueState),
		leagueByName: make(map[string]string),
	}
}

func (s *Store) leagueState(leagueID string) (*leagueState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ls, ok := s.leagues[leagueID]
	return ls, ok
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func cloneLeague(l league.League) league.League {
	copied := l
	copied.DraftOrder = append([]string(nil), l.DraftOrder...)
	copied.FlexEligible = append([]string(nil), l.FlexEligible...)
	if l.PositionLimits != nil {
		copied.PositionLimits = make(map[string]int, len(l.PositionLimits))
		for k, v := range l.PositionLimits {
			copied.PositionLimits[k] = v
		}
	}
	return copied
}
