package game

import "context"

// addWatcherLocked registers a new watcher and returns the channel it
// should block on until the next state change. Must hold b.mu.
func (b *Board) addWatcherLocked() chan struct{} {
	ch := make(chan struct{})
	b.watchers = append(b.watchers, ch)
	return ch
}

// notifyWatchersLocked wakes every current watcher and clears the set.
// Called whenever a cell's face-up/down state or card changes. Must hold
// b.mu.
func (b *Board) notifyWatchersLocked() {
	for _, ch := range b.watchers {
		close(ch)
	}
	b.watchers = nil
}

// removeWatcherLocked drops ch from the watcher set without closing it,
// used when a Watch call is cancelled before the next change arrives.
// Must hold b.mu.
func (b *Board) removeWatcherLocked(ch chan struct{}) {
	for i, w := range b.watchers {
		if w == ch {
			b.watchers = append(b.watchers[:i], b.watchers[i+1:]...)
			return
		}
	}
}

// Watch blocks until the board's rendering for playerID could plausibly
// have changed since the call began, then returns the current rendering.
// It returns early with ctx.Err() if ctx is cancelled first.
func (b *Board) Watch(ctx context.Context, playerID string) (string, error) {
	b.mu.Lock()
	b.registerPlayerLocked(playerID)
	wake := b.addWatcherLocked()
	b.mu.Unlock()

	select {
	case <-wake:
	case <-ctx.Done():
		b.mu.Lock()
		b.removeWatcherLocked(wake)
		b.mu.Unlock()
		return "", ctx.Err()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderLocked(playerID), nil
}
