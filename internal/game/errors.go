package game

import "errors"

// Rule violations are rejected before any state mutates; every error
// below leaves the table exactly as it was.
var (
	// ErrIllegalAction covers wrong-turn, bad-amount and
	// not-permitted-in-this-stage rejections of a betting action.
	ErrIllegalAction = errors.New("illegal action")

	// ErrTableFull is returned when all nine seats are occupied.
	ErrTableFull = errors.New("table full")

	// ErrSeatLocked is returned when a seat cannot be vacated because a
	// hand is in progress. The player is flagged to leave at hand end.
	ErrSeatLocked = errors.New("seat locked until hand ends")

	// ErrBuyinWindowClosed is returned for buy-in requests outside the
	// waiting stage.
	ErrBuyinWindowClosed = errors.New("buy-in window closed during a hand")

	// ErrNotEnoughPlayers is returned when a hand start is requested
	// with fewer than two eligible players.
	ErrNotEnoughPlayers = errors.New("need at least 2 players")

	// ErrHandInProgress is returned when a hand start is requested
	// while a hand is already running.
	ErrHandInProgress = errors.New("hand already in progress")
)
