// Command server hosts one Memory Scramble board, loaded from BOARD_FILE or
// generated at the configured dimensions, behind a websocket transport. It
// follows the teacher's main.go shape: load .env,
// load Config, wire the ambient logging handler, start one long-running
// process listening on WSPort.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"memoryscramble/boardfile"
	"memoryscramble/boardregistry"
	"memoryscramble/config"
	"memoryscramble/loghandler"
	"memoryscramble/transport"
)

// defaultLabels builds a shuffled rows*cols grid of paired labels for a
// freshly-constructed board when no board file is supplied. rows*cols must
// be even; an odd cell count leaves the final label unpaired.
func defaultLabels(rows, cols int) []string {
	n := rows * cols
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	labels := make([]string, n)
	for i := range labels {
		labels[i] = string(letters[(i/2)%len(letters)])
	}
	rand.Shuffle(n, func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })
	return labels
}

func main() {
	log := slog.New(loghandler.NewCompactHandler(os.Stdout, slog.LevelInfo))

	if err := godotenv.Load(); err != nil {
		if err2 := godotenv.Load("cmd/server/.env"); err2 != nil {
			log.Info("no .env file found; using environment variables", "tag", "server")
		}
	}

	cfg := config.Load()
	log.Info("configuration loaded", "tag", "server",
		"board_rows", cfg.BoardRows, "board_cols", cfg.BoardCols, "ws_port", cfg.WSPort)

	registry := boardregistry.New()

	boardFilePath := os.Getenv("BOARD_FILE")
	var defaultBoardID string
	if boardFilePath != "" {
		f, err := os.Open(boardFilePath)
		if err != nil {
			log.Error("failed to open board file", "tag", "server", "path", boardFilePath, "err", err)
			os.Exit(1)
		}
		parsed, err := boardfile.Parse(f)
		f.Close()
		if err != nil {
			log.Error("failed to parse board file", "tag", "server", "path", boardFilePath, "err", err)
			os.Exit(1)
		}
		id, _, err := registry.Create(parsed.Rows, parsed.Cols, parsed.Labels)
		if err != nil {
			log.Error("failed to construct board from file", "tag", "server", "err", err)
			os.Exit(1)
		}
		defaultBoardID = id
		log.Info("loaded board from file", "tag", "server", "path", boardFilePath, "board_id", id)
	} else {
		labels := defaultLabels(cfg.BoardRows, cfg.BoardCols)
		id, _, err := registry.Create(cfg.BoardRows, cfg.BoardCols, labels)
		if err != nil {
			log.Error("failed to construct default board", "tag", "server", "err", err)
			os.Exit(1)
		}
		defaultBoardID = id
		log.Info("constructed default board", "tag", "server", "board_id", id)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hubs := make(map[string]*transport.Hub)
	for _, id := range registry.IDs() {
		b, _ := registry.Lookup(id)
		hub := transport.NewHub(b, log)
		hubs[id] = hub
		go hub.Run(ctx)
	}

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		boardID := r.URL.Query().Get("board")
		if boardID == "" {
			boardID = defaultBoardID
		}
		hub, ok := hubs[boardID]
		if !ok {
			http.Error(w, "unknown board", http.StatusNotFound)
			return
		}
		playerID := r.URL.Query().Get("player")
		if playerID == "" {
			http.Error(w, "missing player query parameter", http.StatusBadRequest)
			return
		}
		if len(playerID) > cfg.MaxNameLength {
			http.Error(w, "player query parameter too long", http.StatusBadRequest)
			return
		}
		hub.ServeWS(w, r, playerID)
	})

	addr := fmt.Sprintf(":%d", cfg.WSPort)
	log.Info("listening", "tag", "server", "addr", addr)

	srv := &http.Server{Addr: addr}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "tag", "server", "err", err)
		os.Exit(1)
	}
}
