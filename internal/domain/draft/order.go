package draft

// Snake ordering: team order reverses every other round so the earlier-round
// disadvantage balances out. Both functions are pure; they can run concurrently
// with drafting because committed picks are stored facts on players, never
// recomputed from the order.

// UpcomingPick pairs an absolute pick number with the team on the clock.
type UpcomingPick struct {
	PickNumber int
	TeamName   string
}

// TeamAtPick returns the team on the clock for a zero-based pick index.
func TeamAtPick(order []string, pickIndex int) (string, error) {
	n := len(order)
	if n == 0 {
		return "", ErrEmptyDraftOrder
	}
	if pickIndex < 0 {
		pickIndex = 0
	}

	round := pickIndex / n
	slot := pickIndex % n
	if round%2 == 1 {
		slot = n - 1 - slot
	}

	return order[slot], nil
}

// Upcoming returns the next count picks starting at pickIndex. Each entry is
// computed independently by the snake rule.
func Upcoming(order []string, pickIndex, count int) ([]UpcomingPick, error) {
	if len(order) == 0 {
		return nil, ErrEmptyDraftOrder
	}
	if pickIndex < 0 {
		pickIndex = 0
	}
	if count < 0 {
		count = 0
	}

	out := make([]UpcomingPick, 0, count)
	for i := 0; i < count; i++ {
		team, err := TeamAtPick(order, pickIndex+i)
		if err != nil {
			return nil, err
		}
		out = append(out, UpcomingPick{PickNumber: pickIndex + i, TeamName: team})
	}

	return out, nil
}
