package game

import (
	"context"

	"memoryscramble/matcherrors"
)

// Flip is the only operation that moves cards through the turn protocol
// (Map rewrites labels but changes no face-up, held or turn state). It
// registers playerID if unknown, completes that player's previous turn if one is pending
// clean-up, then treats this call as the turn's first or second flip
// depending on the player's current state.
//
// row/col out of range fails immediately with ErrOutOfRange without
// touching the player's turn state or the grid.
//
// Flip blocks only when a first flip targets a cell held by another
// player; it resumes either when that cell is released or when ctx is
// cancelled, in which case it returns ctx.Err(). The player's previous
// turn has already been completed by then, so a cancelled flip leaves the
// player idle with no card held.
func (b *Board) Flip(ctx context.Context, playerID string, row, col int) (string, error) {
	if !b.inRange(row, col) {
		return "", matcherrors.ErrOutOfRange
	}
	target := Coordinate{Row: row, Col: col}

	b.mu.Lock()
	pt := b.registerPlayerLocked(playerID)
	b.completePreviousTurnLocked(pt)

	if !pt.hasFirst {
		return b.firstFlipLocked(ctx, playerID, pt, target)
	}
	return b.secondFlipLocked(playerID, pt, target)
}

// completePreviousTurnLocked resolves a turn the player already finished
// (S2-match or S2-miss, including the single-card miss releaseAndFail
// records after a failed second flip) before the caller's state machine
// decides how to treat this new flip. A player found in S1 (one card held,
// none played since) is mid-turn, not finished, so this call will be
// treated as their second flip and nothing here needs to reset. Must hold
// b.mu.
func (b *Board) completePreviousTurnLocked(pt *PlayerTurn) {
	if !pt.hasFirst || !pt.hasSecond {
		return
	}
	if pt.matched {
		first, second := pt.first, pt.second
		b.spots[b.index(first)] = Spot{}
		b.spots[b.index(second)] = Spot{}
		b.notifyWatchersLocked()
		b.wakeNextLocked(first)
		b.wakeNextLocked(second)
	} else {
		changed := false
		for _, c := range [2]Coordinate{pt.first, pt.second} {
			s := &b.spots[b.index(c)]
			if s.faceUp && s.holder == "" {
				s.faceUp = false
				changed = true
			}
		}
		if changed {
			b.notifyWatchersLocked()
		}
	}
	*pt = PlayerTurn{}
}

// firstFlipLocked handles a FIRST flip, including suspension when the
// target is currently held by someone else. Must be called with b.mu
// held; unlocks it on every return path.
func (b *Board) firstFlipLocked(ctx context.Context, playerID string, pt *PlayerTurn, target Coordinate) (string, error) {
	s := &b.spots[b.index(target)]

	if s.card == "" {
		b.mu.Unlock()
		return "", matcherrors.ErrNoCard
	}

	if s.holder != "" && s.holder != playerID {
		wake := b.enqueueWaiterLocked(target)
		b.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			b.mu.Lock()
			b.removeWaiterLocked(target, wake)
			b.mu.Unlock()
			return "", ctx.Err()
		}

		b.mu.Lock()
		s = &b.spots[b.index(target)]
		if s.card == "" {
			b.wakeNextLocked(target)
			b.mu.Unlock()
			return "", matcherrors.ErrNoCard
		}
		if s.holder != "" && s.holder != playerID {
			b.wakeNextLocked(target)
			b.mu.Unlock()
			return "", matcherrors.ErrStillHeld
		}
	}

	changed := !s.faceUp
	s.faceUp = true
	s.holder = playerID
	pt.hasFirst = true
	pt.first = target

	if changed {
		b.notifyWatchersLocked()
	}
	b.wakeNextLocked(target)

	rendered := b.renderLocked(playerID)
	b.mu.Unlock()
	return rendered, nil
}

// secondFlipLocked handles a SECOND flip. It never suspends: the target
// is either free to claim, already held (by self or another player), or
// gone, and each of those resolves immediately. Must be called with b.mu
// held; unlocks it on every return path.
func (b *Board) secondFlipLocked(playerID string, pt *PlayerTurn, target Coordinate) (string, error) {
	first := pt.first
	s := &b.spots[b.index(target)]

	if s.card == "" {
		b.releaseAndFail(pt, first)
		b.mu.Unlock()
		return "", matcherrors.ErrNoCard
	}
	if s.holder != "" {
		b.releaseAndFail(pt, first)
		b.mu.Unlock()
		return "", matcherrors.ErrHeld
	}

	changed := !s.faceUp
	s.faceUp = true
	pt.hasSecond = true
	pt.second = target

	firstSpot := &b.spots[b.index(first)]
	if s.card == firstSpot.card {
		s.holder = playerID
		pt.matched = true
	} else {
		pt.matched = false
		firstSpot.holder = ""
		b.wakeNextLocked(first)
	}

	if changed {
		b.notifyWatchersLocked()
	}

	rendered := b.renderLocked(playerID)
	b.mu.Unlock()
	return rendered, nil
}

// releaseAndFail undoes a failed second flip: the first card is released
// but left face-up, and the player's turn is recorded as a finished miss
// on that single card (first and second both point at it). The player's
// next flip therefore runs completePreviousTurnLocked, which turns the card
// back down if it is still unheld, and then starts a fresh turn.
func (b *Board) releaseAndFail(pt *PlayerTurn, first Coordinate) {
	b.spots[b.index(first)].holder = ""
	b.wakeNextLocked(first)
	*pt = PlayerTurn{hasFirst: true, first: first, hasSecond: true, second: first}
}
