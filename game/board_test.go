package game

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"memoryscramble/matcherrors"
)

func mustBoard(t *testing.T, rows, cols int, labels []string) *Board {
	t.Helper()
	b, err := NewBoard(rows, cols, labels)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	return b
}

func TestNewBoardRejectsBadLabelCount(t *testing.T) {
	if _, err := NewBoard(2, 2, []string{"A", "B"}); !errors.Is(err, matcherrors.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestNewBoardRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := NewBoard(0, 2, nil); !errors.Is(err, matcherrors.ErrParse) {
		t.Fatalf("expected ErrParse for zero rows, got %v", err)
	}
}

func TestLookRendersHeaderAndCells(t *testing.T) {
	b := mustBoard(t, 2, 2, []string{"A", "A", "B", "B"})
	got := b.Look("p1")
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "2x2" {
		t.Fatalf("expected header 2x2, got %q", lines[0])
	}
	if len(lines) != 1+4 {
		t.Fatalf("expected %d lines, got %d", 5, len(lines))
	}
	for _, l := range lines[1:] {
		if l != "down" {
			t.Errorf("expected down, got %q", l)
		}
	}
}

func TestSimpleMatchRemovesPair(t *testing.T) {
	b := mustBoard(t, 2, 2, []string{"A", "A", "B", "B"})
	ctx := context.Background()

	view, err := b.Flip(ctx, "p1", 0, 0)
	if err != nil {
		t.Fatalf("flip(0,0): %v", err)
	}
	if !strings.Contains(view, "my A") {
		t.Fatalf("expected first card held by p1, got:\n%s", view)
	}

	view, err = b.Flip(ctx, "p1", 0, 1)
	if err != nil {
		t.Fatalf("flip(0,1): %v", err)
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if lines[1] != "my A" || lines[2] != "my A" {
		t.Fatalf("expected both A cells held by p1, got:\n%s", view)
	}

	view, err = b.Flip(ctx, "p1", 1, 0)
	if err != nil {
		t.Fatalf("flip(1,0): %v", err)
	}
	lines = strings.Split(strings.TrimRight(view, "\n"), "\n")
	if lines[1] != "none" || lines[2] != "none" {
		t.Fatalf("expected matched pair removed, got:\n%s", view)
	}
	if lines[3] != "my B" {
		t.Fatalf("expected (1,0) newly held, got:\n%s", view)
	}
	if lines[4] != "down" {
		t.Fatalf("expected (1,1) still down, got:\n%s", view)
	}
}

func TestMissThenCleanup(t *testing.T) {
	b := mustBoard(t, 2, 2, []string{"A", "B", "A", "B"})
	ctx := context.Background()

	if _, err := b.Flip(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("flip(0,0): %v", err)
	}
	view, err := b.Flip(ctx, "p1", 0, 1)
	if err != nil {
		t.Fatalf("flip(0,1): %v", err)
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if lines[1] != "up A" || lines[2] != "up B" {
		t.Fatalf("expected both face-up unheld from own view after a miss, got:\n%s", view)
	}

	view, err = b.Flip(ctx, "p1", 1, 0)
	if err != nil {
		t.Fatalf("flip(1,0): %v", err)
	}
	lines = strings.Split(strings.TrimRight(view, "\n"), "\n")
	if lines[1] != "down" || lines[2] != "down" {
		t.Fatalf("expected missed pair flipped back down, got:\n%s", view)
	}
	if lines[3] != "my A" {
		t.Fatalf("expected (1,0) newly held, got:\n%s", view)
	}
}

func TestFirstFlipNoCardFails(t *testing.T) {
	b := mustBoard(t, 1, 1, []string{""})
	_, err := b.Flip(context.Background(), "p1", 0, 0)
	if !errors.Is(err, matcherrors.ErrNoCard) {
		t.Fatalf("expected ErrNoCard, got %v", err)
	}
}

func TestSecondFlipSameCellFailsHeld(t *testing.T) {
	b := mustBoard(t, 1, 2, []string{"A", "A"})
	ctx := context.Background()
	if _, err := b.Flip(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("flip(0,0): %v", err)
	}
	_, err := b.Flip(ctx, "p1", 0, 0)
	if !errors.Is(err, matcherrors.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}
}

func TestFlipOutOfRange(t *testing.T) {
	b := mustBoard(t, 2, 2, []string{"A", "A", "B", "B"})
	_, err := b.Flip(context.Background(), "p1", 5, 5)
	if !errors.Is(err, matcherrors.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestHeldOnSecondRejected(t *testing.T) {
	b := mustBoard(t, 2, 2, []string{"A", "A", "B", "B"})
	ctx := context.Background()

	if _, err := b.Flip(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("p1 flip(0,0): %v", err)
	}
	if _, err := b.Flip(ctx, "p2", 0, 1); err != nil {
		t.Fatalf("p2 flip(0,1): %v", err)
	}
	_, err := b.Flip(ctx, "p2", 0, 0)
	if !errors.Is(err, matcherrors.ErrHeld) {
		t.Fatalf("expected ErrHeld, got %v", err)
	}

	view := b.Look("p2")
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if lines[2] != "up A" {
		t.Fatalf("expected the failed second flip to release p2's first card at (0,1), rendering up A, got:\n%s", view)
	}
}

// TestFIFOWaiterFairness drives scenario 3 from spec.md §8: a single-queue
// release wakes waiters strictly in arrival order, and both observe NoCard
// once the matched pair backing the contested cell is removed.
func TestFIFOWaiterFairness(t *testing.T) {
	b := mustBoard(t, 1, 2, []string{"A", "A"})
	ctx := context.Background()

	if _, err := b.Flip(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("p1 flip(0,0): %v", err)
	}

	order := make(chan string, 2)
	started := make(chan struct{}, 2)
	go func() {
		started <- struct{}{}
		_, err := b.Flip(ctx, "p2", 0, 0)
		order <- "p2:" + errString(err)
	}()
	<-started
	// Let p2 reach the queue before p3 starts, so arrival order is p2, p3.
	time.Sleep(20 * time.Millisecond)
	go func() {
		started <- struct{}{}
		_, err := b.Flip(ctx, "p3", 0, 0)
		order <- "p3:" + errString(err)
	}()
	<-started
	// Give p3 a chance to reach the suspension point.
	time.Sleep(20 * time.Millisecond)

	if _, err := b.Flip(ctx, "p1", 0, 1); err != nil {
		t.Fatalf("p1 flip(0,1) (match): %v", err)
	}

	select {
	case res := <-order:
		t.Fatalf("waiter woke before release: %s", res)
	case <-time.After(20 * time.Millisecond):
	}

	// The new turn first removes the matched pair, so the flip itself then
	// lands on a cardless cell.
	if _, err := b.Flip(ctx, "p1", 0, 0); !errors.Is(err, matcherrors.ErrNoCard) {
		t.Fatalf("p1 new-turn flip(0,0) (removal): expected ErrNoCard, got %v", err)
	}

	first := <-order
	second := <-order
	if first != "p2:no card at that position" {
		t.Fatalf("expected p2 to wake first with NoCard, got %q (then %q)", first, second)
	}
	if second != "p3:no card at that position" {
		t.Fatalf("expected p3 to wake second with NoCard, got %q", second)
	}
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return err.Error()
}

func TestAtomicRelabelPreservesPairs(t *testing.T) {
	b := mustBoard(t, 2, 2, []string{"A", "A", "B", "B"})
	ctx := context.Background()

	_, err := b.Map(ctx, "p1", func(_ context.Context, label string) (string, error) {
		return label + "!", nil
	})
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	if _, err := b.Flip(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("flip(0,0): %v", err)
	}
	view, err := b.Flip(ctx, "p1", 0, 1)
	if err != nil {
		t.Fatalf("flip(0,1): %v", err)
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if lines[1] != "my A!" || lines[2] != "my A!" {
		t.Fatalf("expected relabeled pair to still match and be held by p1, got:\n%s", view)
	}
}

func TestMapIdentityEmitsNoNotification(t *testing.T) {
	b := mustBoard(t, 1, 2, []string{"A", "B"})
	ctx := context.Background()

	woke := make(chan struct{})
	go func() {
		b.Watch(ctx, "watcher")
		close(woke)
	}()
	time.Sleep(10 * time.Millisecond)

	if _, err := b.Map(ctx, "p1", func(_ context.Context, label string) (string, error) {
		return label, nil
	}); err != nil {
		t.Fatalf("Map: %v", err)
	}

	select {
	case <-woke:
		t.Fatal("watcher woke on a no-op relabel")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestMapFailurePreservesAllLabels(t *testing.T) {
	b := mustBoard(t, 1, 2, []string{"A", "B"})
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := b.Map(ctx, "p1", func(_ context.Context, label string) (string, error) {
		if label == "B" {
			return "", boom
		}
		return label + "!", nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	b.mu.Lock()
	first, second := b.spots[0].card, b.spots[1].card
	b.mu.Unlock()
	if first != "A" || second != "B" {
		t.Fatalf("expected no labels applied on partial failure, got %q and %q", first, second)
	}
}

func TestWatcherWakesOnChangeNotOnLook(t *testing.T) {
	b := mustBoard(t, 1, 1, []string{"A"})
	ctx := context.Background()

	woke := make(chan string, 1)
	started := make(chan struct{})
	go func() {
		close(started)
		view, err := b.Watch(ctx, "watcher")
		if err != nil {
			woke <- "err:" + err.Error()
			return
		}
		woke <- view
	}()
	<-started
	time.Sleep(10 * time.Millisecond)

	b.Look("someone-else")

	select {
	case v := <-woke:
		t.Fatalf("watcher woke on a no-op look: %q", v)
	case <-time.After(20 * time.Millisecond):
	}

	if _, err := b.Flip(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("flip: %v", err)
	}

	select {
	case v := <-woke:
		if !strings.Contains(v, "up A") {
			t.Fatalf("expected watcher's view to show the flipped card, got:\n%s", v)
		}
	case <-time.After(time.Second):
		t.Fatal("watcher never woke after a real change")
	}
}

func TestFlipCancelledWhileWaitingRemovesWaiter(t *testing.T) {
	b := mustBoard(t, 1, 1, []string{"A"})
	ctx := context.Background()
	if _, err := b.Flip(ctx, "p1", 0, 0); err != nil {
		t.Fatalf("p1 flip: %v", err)
	}

	cctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.Flip(cctx, "p2", 0, 0)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled flip never returned")
	}

	b.mu.Lock()
	n := len(b.waiters[Coordinate{Row: 0, Col: 0}])
	b.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected cancelled waiter to be removed from the queue, got %d remaining", n)
	}
}
