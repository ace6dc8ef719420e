package scoring

import "errors"

// Misuse: the operation has no eligible innings to act on.
var (
	ErrNoActiveInnings = errors.New("no active innings")
	ErrInningsComplete = errors.New("innings is already complete")
	ErrBowlerRequired  = errors.New("a bowler must be assigned before the next ball")
	ErrBatsmanRequired = errors.New("a batsman must be assigned before the next ball")
	ErrInvalidDelivery = errors.New("invalid delivery")
	ErrInvalidLineup   = errors.New("invalid lineup")
	ErrInvalidPlayer   = errors.New("player id is required")
	ErrInvalidImport   = errors.New("invalid match data")
)

// Rule violations. State is left untouched.
var (
	ErrConsecutiveOvers = errors.New("bowler cannot bowl consecutive overs")
	ErrDuplicateBatsman = errors.New("batsman is already at the crease")
	ErrBatsmanDismissed = errors.New("batsman has already been dismissed this innings")
)

// Correction.
var (
	ErrEmptyBallLog = errors.New("no balls to undo")
	ErrMatchSettled = errors.New("match was settled before its last ball and cannot be corrected")
)
