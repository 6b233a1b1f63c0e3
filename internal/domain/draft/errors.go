package draft

import "errors"

var (
	ErrEmptyDraftOrder   = errors.New("draft order is empty")
	ErrNotConfigured     = errors.New("draft is not configured")
	ErrOutOfTurn         = errors.New("not this team's turn")
	ErrPlayerUnavailable = errors.New("player unavailable")
	ErrRosterFull        = errors.New("roster limit reached")

	// ErrPickConflict is returned by stores when the compare-and-commit
	// precondition fails: the pick index moved or the player was drafted
	// between validation and commit. Callers re-observe state and re-validate.
	ErrPickConflict = errors.New("pick commit conflict")
)
