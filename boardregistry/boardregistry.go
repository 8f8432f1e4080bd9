// Package boardregistry hosts any number of concurrently-running
// game.Boards, one per loaded board-file or per freshly-constructed table,
// keyed by an opaque ID generated at creation time. It generalizes the
// teacher's Matchmaker.activeGames/Matchmaker.mu pattern from a single
// 2-player game map to a general board map; there is no matchmaking, pairing,
// or rejoin concept here, only lookup by ID.
package boardregistry

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"memoryscramble/game"
)

// Registry is a mutex-protected map from board ID to Board.
type Registry struct {
	mu     sync.RWMutex
	boards map[string]*game.Board
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{boards: make(map[string]*game.Board)}
}

// Create builds a fresh board from rows/cols/labels, registers it under a
// newly-generated ID, and returns both.
func (r *Registry) Create(rows, cols int, labels []string) (id string, b *game.Board, err error) {
	b, err = game.NewBoard(rows, cols, labels)
	if err != nil {
		return "", nil, err
	}
	id = uuid.NewString()
	r.mu.Lock()
	r.boards[id] = b
	r.mu.Unlock()
	return id, b, nil
}

// Get looks up a board by ID.
func (r *Registry) Get(id string) (*game.Board, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.boards[id]
	return b, ok
}

// Remove drops a board from the registry. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.boards, id)
	r.mu.Unlock()
}

// IDs returns the IDs of every currently-registered board, for listing.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.boards))
	for id := range r.boards {
		ids = append(ids, id)
	}
	return ids
}

// ErrUnknownBoard is returned when a caller references a board ID that is
// not (or no longer) registered.
var ErrUnknownBoard = fmt.Errorf("unknown board id")

// Lookup returns the board for id, or ErrUnknownBoard.
func (r *Registry) Lookup(id string) (*game.Board, error) {
	b, ok := r.Get(id)
	if !ok {
		return nil, ErrUnknownBoard
	}
	return b, nil
}
