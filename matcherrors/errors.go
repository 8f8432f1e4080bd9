// Package matcherrors holds sentinel errors shared by the game and transport
// packages, so neither has to import the other just to compare error values.
package matcherrors

import "errors"

// Core sentinel errors, one per error kind a Board operation can raise.
var (
	// ErrNoCard is returned by Flip when the target cell has no card, either
	// on entry or after the caller wakes from a wait.
	ErrNoCard = errors.New("no card at that position")

	// ErrStillHeld is returned by Flip when, after waking from a wait on a
	// first flip, the cell is again (or still) held by another player.
	ErrStillHeld = errors.New("cell is still held by another player")

	// ErrHeld is returned by Flip when a second flip targets a cell held by
	// any player, including the caller.
	ErrHeld = errors.New("cell is held")

	// ErrOutOfRange is returned by Flip when the coordinate falls outside
	// the board's dimensions.
	ErrOutOfRange = errors.New("coordinate out of range")

	// ErrParse is returned by the board constructor and the board-file
	// loader when the input is structurally inconsistent.
	ErrParse = errors.New("parse error")

	// ErrRelabelFailed wraps whatever error a caller-supplied relabel
	// function returned from Map, so callers can distinguish "the board
	// rejected the call" from "the supplied function itself failed" with
	// errors.Is, which also matches the underlying error itself.
	ErrRelabelFailed = errors.New("relabel function failed")
)
