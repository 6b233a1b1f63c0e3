package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-draft/internal/domain/draft"
	"github.com/riskibarqy/fantasy-draft/internal/domain/league"
	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
	"github.com/riskibarqy/fantasy-draft/internal/domain/team"
	"github.com/riskibarqy/fantasy-draft/internal/domain/user"
)

// maxPickAttempts bounds the re-validate loop after commit conflicts. Each
// retry re-observes the league, so a losing racer resolves to a definite
// error (out of turn, player taken) instead of spinning.
const maxPickAttempts = 3

type PickResult struct {
	Player player.Player
	State  draft.State
}

type DraftConfigInput struct {
	// Nil means "leave as is"; empty slice/map clears nothing and is invalid.
	DraftOrder     []string
	PositionLimits map[string]int
	FlexEligible   []string
}

type DraftService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
	playerRepo player.Repository
	draftRepo  draft.Repository
	now        func() time.Time
}

func NewDraftService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	draftRepo draft.Repository,
) *DraftService {
	return &DraftService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		draftRepo:  draftRepo,
		now:        time.Now,
	}
}

// State returns the polling view of the draft. It reads committed facts only
// and never waits behind an in-flight pick commit.
func (s *DraftService) State(ctx context.Context, leagueID string) (draft.State, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.State")
	defer span.End()

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return draft.State{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return draft.State{}, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}

	return stateOf(l), nil
}

// UpcomingPicks lists the next count picks by the snake rule.
func (s *DraftService) UpcomingPicks(ctx context.Context, leagueID string, count int) ([]draft.UpcomingPick, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.UpcomingPicks")
	defer span.End()

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league %s", ErrNotFound, leagueID)
	}
	if len(l.DraftOrder) == 0 {
		return nil, draft.ErrNotConfigured
	}

	picks, err := draft.Upcoming(l.DraftOrder, l.CurrentPickIndex, count)
	if err != nil {
		return nil, err
	}

	return picks, nil
}

// AttemptPick validates and commits one pick for the calling team. Validation
// and commit race with concurrent picks; the commit is a compare-and-commit
// against the observed pick index, and a conflict re-runs validation against
// fresh state so the caller always gets a truthful error.
func (s *DraftService) AttemptPick(ctx context.Context, principal user.Principal, playerID string) (PickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.AttemptPick")
	defer span.End()

	if playerID == "" {
		return PickResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var lastErr error
	for attempt := 0; attempt < maxPickAttempts; attempt++ {
		l, exists, err := s.leagueRepo.GetByID(ctx, principal.LeagueID)
		if err != nil {
			return PickResult{}, fmt.Errorf("get league: %w", err)
		}
		if !exists {
			return PickResult{}, fmt.Errorf("%w: league %s", ErrNotFound, principal.LeagueID)
		}
		if len(l.DraftOrder) == 0 {
			return PickResult{}, draft.ErrNotConfigured
		}

		onClock, err := draft.TeamAtPick(l.DraftOrder, l.CurrentPickIndex)
		if err != nil {
			return PickResult{}, err
		}
		if !sameTeam(onClock, principal.TeamName) {
			return PickResult{}, fmt.Errorf("%w: %s is on the clock", draft.ErrOutOfTurn, onClock)
		}

		candidate, exists, err := s.playerRepo.GetByID(ctx, principal.LeagueID, playerID)
		if err != nil {
			return PickResult{}, fmt.Errorf("get player: %w", err)
		}
		if !exists {
			return PickResult{}, fmt.Errorf("%w: player %s", draft.ErrPlayerUnavailable, playerID)
		}
		if candidate.Drafted() {
			return PickResult{}, fmt.Errorf("%w: %s already drafted by %s",
				draft.ErrPlayerUnavailable, candidate.Name, candidate.DraftedBy)
		}

		if err := s.checkRosterRoom(ctx, l, principal.TeamName, candidate.Position); err != nil {
			return PickResult{}, err
		}

		picked, err := s.draftRepo.CommitPick(ctx, l.ID, l.CurrentPickIndex, playerID, principal.TeamName, s.now().UTC())
		if err != nil {
			if isPickConflict(err) {
				lastErr = err
				continue
			}
			return PickResult{}, err
		}

		fresh, err := s.State(ctx, l.ID)
		if err != nil {
			return PickResult{}, err
		}

		return PickResult{Player: picked, State: fresh}, nil
	}

	return PickResult{}, lastErr
}

// UpdateConfig replaces the draft order and/or position limits. Only the
// league admin may call it; it never rewinds the pick index and never touches
// committed picks, so reordering mid-draft affects future picks only.
func (s *DraftService) UpdateConfig(ctx context.Context, principal user.Principal, input DraftConfigInput) (draft.State, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.UpdateConfig")
	defer span.End()

	if !principal.IsAdmin {
		return draft.State{}, fmt.Errorf("%w: draft configuration is admin only", ErrForbidden)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, principal.LeagueID)
	if err != nil {
		return draft.State{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return draft.State{}, fmt.Errorf("%w: league %s", ErrNotFound, principal.LeagueID)
	}

	if input.DraftOrder == nil && input.PositionLimits == nil && input.FlexEligible == nil {
		return draft.State{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if input.DraftOrder != nil {
		if err := s.validateDraftOrder(ctx, l.ID, input.DraftOrder); err != nil {
			return draft.State{}, err
		}
	}
	if input.PositionLimits != nil {
		if err := validatePositionLimits(input.PositionLimits); err != nil {
			return draft.State{}, err
		}
	}

	update := league.ConfigUpdate{
		DraftOrder:     input.DraftOrder,
		PositionLimits: input.PositionLimits,
	}
	if input.FlexEligible != nil {
		normalized, err := normalizeFlexEligible(input.FlexEligible)
		if err != nil {
			return draft.State{}, err
		}
		update.FlexEligible = normalized
	}
	if err := s.leagueRepo.UpdateConfig(ctx, l.ID, update); err != nil {
		return draft.State{}, fmt.Errorf("update draft config: %w", err)
	}

	return s.State(ctx, l.ID)
}

func (s *DraftService) validateDraftOrder(ctx context.Context, leagueID string, order []string) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: draft order cannot be empty", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("%w: draft order contains an empty team name", ErrInvalidInput)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate team %q in draft order", ErrInvalidInput, name)
		}
		seen[key] = struct{}{}

		_, exists, err := s.teamRepo.GetByName(ctx, leagueID, name)
		if err != nil {
			return fmt.Errorf("get team %q: %w", name, err)
		}
		if !exists {
			return fmt.Errorf("%w: team %q has not joined the league", ErrInvalidInput, name)
		}
	}

	return nil
}

func validatePositionLimits(limits map[string]int) error {
	for key, limit := range limits {
		if limit < 0 {
			return fmt.Errorf("%w: limit for %q cannot be negative", ErrInvalidInput, key)
		}
		if strings.EqualFold(key, draft.FlexKey) {
			continue
		}
		if _, err := player.ParsePosition(key); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	return nil
}

// normalizeFlexEligible canonicalizes position codes at config time so the
// pick path never re-parses them. FLEX itself is not a position and is
// rejected by ParsePosition.
func normalizeFlexEligible(positions []string) ([]string, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("%w: flex eligibility cannot be empty", ErrInvalidInput)
	}

	out := make([]string, 0, len(positions))
	seen := make(map[player.Position]struct{}, len(positions))
	for _, raw := range positions {
		pos, err := player.ParsePosition(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if _, dup := seen[pos]; dup {
			return nil, fmt.Errorf("%w: duplicate position %q in flex eligibility", ErrInvalidInput, raw)
		}
		seen[pos] = struct{}{}
		out = append(out, string(pos))
	}

	return out, nil
}

func (s *DraftService) checkRosterRoom(ctx context.Context, l league.League, teamName string, pos player.Position) error {
	roster, err := s.playerRepo.ListByTeam(ctx, l.ID, teamName)
	if err != nil {
		return fmt.Errorf("list team roster: %w", err)
	}

	counts := make(map[player.Position]int, len(roster))
	for _, p := range roster {
		counts[p.Position]++
	}

	limits := draft.ResolveLimits(l.PositionLimits, draft.FlexEligibleSet(l.FlexEligible))
	return draft.CanDraft(counts, pos, limits)
}

func stateOf(l league.League) draft.State {
	state := draft.State{
		LeagueID:         l.ID,
		DraftOrder:       append([]string(nil), l.DraftOrder...),
		PositionLimits:   l.PositionLimits,
		FlexEligible:     append([]string(nil), l.FlexEligible...),
		CurrentPickIndex: l.CurrentPickIndex,
	}
	if state.Configured() {
		if current, err := draft.TeamAtPick(l.DraftOrder, l.CurrentPickIndex); err == nil {
			state.CurrentTeam = current
		}
	}

	return state
}

func sameTeam(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func isPickConflict(err error) bool {
	return errors.Is(err, draft.ErrPickConflict)
}
