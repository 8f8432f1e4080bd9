package game

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"memoryscramble/matcherrors"
)

// LabelFunc computes a replacement label for an existing one. It is called
// at most once per distinct label currently on the board, concurrently
// with calls for every other distinct label.
type LabelFunc func(ctx context.Context, label string) (string, error)

// Map relabels every card currently on the board by invoking f once per
// distinct label present at the start of the call, fanning the calls out
// concurrently. If f fails for any label, Map applies no replacements at
// all and returns matcherrors.ErrRelabelFailed wrapping that failure
// (matching errgroup's first-error semantics; errors.Is matches both
// ErrRelabelFailed and the original error); f's other
// in-flight calls are cancelled via ctx but their results, if any, are
// simply discarded. On success, every spot whose label matched one of
// the snapshotted labels is updated atomically.
func (b *Board) Map(ctx context.Context, playerID string, f LabelFunc) (string, error) {
	b.mu.Lock()
	b.registerPlayerLocked(playerID)
	seen := make(map[string]struct{})
	for i := range b.spots {
		if b.spots[i].card != "" {
			seen[b.spots[i].card] = struct{}{}
		}
	}
	b.mu.Unlock()

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}

	replacements := make(map[string]string, len(labels))
	var repMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, label := range labels {
		label := label
		g.Go(func() error {
			replacement, err := f(gctx, label)
			if err != nil {
				return err
			}
			repMu.Lock()
			replacements[label] = replacement
			repMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("%w: %w", matcherrors.ErrRelabelFailed, err)
	}

	b.mu.Lock()
	changed := false
	for i := range b.spots {
		old := b.spots[i].card
		if old == "" {
			continue
		}
		if replacement, ok := replacements[old]; ok && replacement != old {
			b.spots[i].card = replacement
			changed = true
		}
	}
	if changed {
		b.notifyWatchersLocked()
	}
	rendered := b.renderLocked(playerID)
	b.mu.Unlock()
	return rendered, nil
}
