// Command simulate drives a standalone in-process board through the
// simulate package's concurrent player driver — no websocket transport
// involved — printing a play-by-play via the ambient logging stack. It
// doubles as executable documentation of the Board's concurrency
// contract (spec.md §5, §8).
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"memoryscramble/boardfile"
	"memoryscramble/config"
	"memoryscramble/game"
	"memoryscramble/loghandler"
	"memoryscramble/simulate"
)

func main() {
	cfg := config.Load()

	boardPath := flag.String("board", "", "path to a board file (defaults to a generated board of paired labels at config dimensions)")
	players := flag.Int("players", cfg.SimulatedPlayers, "number of simulated players")
	flips := flag.Int("flips", 10, "flips attempted per player")
	delay := flag.Duration("delay", 10*time.Millisecond, "pause between a player's flips")
	flag.Parse()

	log := slog.New(loghandler.NewCompactHandler(os.Stdout, slog.LevelInfo))

	var b *game.Board
	if *boardPath != "" {
		f, err := os.Open(*boardPath)
		if err != nil {
			log.Error("failed to open board file", "tag", "simulate", "path", *boardPath, "err", err)
			os.Exit(1)
		}
		parsed, err := boardfile.Parse(f)
		f.Close()
		if err != nil {
			log.Error("failed to parse board file", "tag", "simulate", "err", err)
			os.Exit(1)
		}
		b, err = game.NewBoard(parsed.Rows, parsed.Cols, parsed.Labels)
		if err != nil {
			log.Error("failed to construct board", "tag", "simulate", "err", err)
			os.Exit(1)
		}
	} else {
		rows, cols := cfg.BoardRows, cfg.BoardCols
		labels := make([]string, rows*cols)
		pairs := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
		for i := range labels {
			labels[i] = pairs[(i/2)%len(pairs)]
		}
		var err error
		b, err = game.NewBoard(rows, cols, labels)
		if err != nil {
			log.Error("failed to construct board", "tag", "simulate", "err", err)
			os.Exit(1)
		}
	}

	rows, cols := b.Dimensions()
	log.Info("starting simulation", "tag", "simulate", "rows", rows, "cols", cols, "players", *players, "flips", *flips)

	if err := simulate.Run(context.Background(), b, simulate.Config{
		Players: *players,
		Flips:   *flips,
		Delay:   *delay,
	}, log); err != nil {
		log.Error("simulation failed", "tag", "simulate", "err", err)
		os.Exit(1)
	}

	log.Info("simulation finished", "tag", "simulate")
}
