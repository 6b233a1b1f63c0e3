package draft

import (
	"fmt"
	"sort"

	"github.com/riskibarqy/fantasy-draft/internal/domain/player"
)

// FlexKey is the reserved position-limits key carrying flex bucket capacity.
const FlexKey = string(player.PositionFlex)

// DefaultFlexEligible is the offensive skill set allowed to overflow into the
// flex bucket when a league configures no override.
var DefaultFlexEligible = map[player.Position]bool{
	player.PositionRunningBack:  true,
	player.PositionWideReceiver: true,
	player.PositionTightEnd:     true,
}

// FlexEligibleSet converts a league's stored eligibility list into the lookup
// set used by CanDraft. An empty list means the league never overrode the
// default.
func FlexEligibleSet(positions []string) map[player.Position]bool {
	if len(positions) == 0 {
		return nil
	}

	set := make(map[player.Position]bool, len(positions))
	for _, pos := range positions {
		set[player.Position(pos)] = true
	}
	return set
}

// Limits is the resolved roster configuration. It is built once per config
// update rather than re-inferred from the raw map on every validation.
type Limits struct {
	Exact        map[player.Position]int
	FlexCapacity int
	FlexEligible map[player.Position]bool
}

// ResolveLimits splits the raw wire map into exact per-position limits and the
// flex bucket. A nil eligibility override keeps the default skill-position set.
func ResolveLimits(raw map[string]int, flexEligible map[player.Position]bool) Limits {
	limits := Limits{
		Exact:        make(map[player.Position]int, len(raw)),
		FlexEligible: flexEligible,
	}
	if limits.FlexEligible == nil {
		limits.FlexEligible = DefaultFlexEligible
	}

	for key, max := range raw {
		if key == FlexKey {
			limits.FlexCapacity = max
			continue
		}
		limits.Exact[player.Position(key)] = max
	}

	return limits
}

// CanDraft checks whether adding one player at pos keeps the team's counts
// within limits. counts maps position to the team's current roster count.
// A position with no configured limit entry is unlimited.
func CanDraft(counts map[player.Position]int, pos player.Position, limits Limits) error {
	max, limited := limits.Exact[pos]
	if !limited {
		return nil
	}
	if counts[pos] < max {
		return nil
	}

	// Exact slots are full; try the flex bucket.
	if limits.FlexCapacity > 0 && limits.FlexEligible[pos] {
		if flexUsed(counts, limits) < limits.FlexCapacity {
			return nil
		}
		return fmt.Errorf("%w: %s limit %d and FLEX limit %d exhausted", ErrRosterFull, pos, max, limits.FlexCapacity)
	}

	return fmt.Errorf("%w: %s limit is %d", ErrRosterFull, pos, max)
}

// flexUsed counts eligible players beyond their exact slots. Iteration is over
// a sorted key list so overflow attribution is deterministic.
func flexUsed(counts map[player.Position]int, limits Limits) int {
	positions := make([]string, 0, len(counts))
	for pos := range counts {
		positions = append(positions, string(pos))
	}
	sort.Strings(positions)

	used := 0
	for _, key := range positions {
		pos := player.Position(key)
		if !limits.FlexEligible[pos] {
			continue
		}
		max, limited := limits.Exact[pos]
		if !limited {
			continue
		}
		if over := counts[pos] - max; over > 0 {
			used += over
		}
	}

	return used
}
