// Package simulate drives N concurrent simulated players against a
// game.Board, exercising the concurrency contract described in spec.md §5
// and §8 (FIFO fairness, no deadlock) the way the
// teacher's integration_test.go exercises a *game.Game end to end, but as
// a standalone driver rather than a test: spec.md §1 names "the
// simulation/test drivers" as an external collaborator of the core, and
// this package is that collaborator.
package simulate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"memoryscramble/game"
)

// Config controls one simulation run.
type Config struct {
	Players int
	Flips   int           // flips attempted per player
	Delay   time.Duration // pause between a player's flips
}

// Run drives cfg.Players goroutines, each attempting cfg.Flips flips
// against b at random coordinates, fanned out through an errgroup the way
// the teacher fans out power-up resolution goroutines — here generalized
// from a fixed two-player game to arbitrary N. Run returns once every
// player has attempted its full quota of flips. A flip that waits longer
// than flipWaitLimit on a held cell gives up and counts as rejected, since
// a player that has used up its quota may keep holding cards. A rejected
// flip is normal play, not a driver failure: Run returns an error only for
// a board with no cells or a cancelled context.
func Run(ctx context.Context, b *game.Board, cfg Config, log *slog.Logger) error {
	rows, cols := b.Dimensions()
	if rows == 0 || cols == 0 {
		return fmt.Errorf("simulate: board has no cells")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Players; i++ {
		playerID := fmt.Sprintf("sim-%d", i)
		g.Go(func() error {
			return playLoop(gctx, b, playerID, rows, cols, cfg, log)
		})
	}
	return g.Wait()
}

// flipWaitLimit bounds how long one simulated flip waits on a cell held by
// another player.
const flipWaitLimit = 50 * time.Millisecond

func playLoop(ctx context.Context, b *game.Board, playerID string, rows, cols int, cfg Config, log *slog.Logger) error {
	for n := 0; n < cfg.Flips; n++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		row := rand.Intn(rows)
		col := rand.Intn(cols)

		flipCtx, cancel := context.WithTimeout(ctx, flipWaitLimit)
		view, err := b.Flip(flipCtx, playerID, row, col)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Info("flip rejected", "tag", "simulate", "player", playerID, "row", row, "col", col, "err", err)
		} else {
			log.Info("flip", "tag", "simulate", "player", playerID, "row", row, "col", col, "len", len(view))
		}

		if cfg.Delay > 0 {
			select {
			case <-time.After(cfg.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
