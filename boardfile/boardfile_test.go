package boardfile

import (
	"errors"
	"strings"
	"testing"

	"memoryscramble/matcherrors"
)

func TestParseValid(t *testing.T) {
	input := "2x2\nA\nA\nB\nB\n"
	p, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Rows != 2 || p.Cols != 2 {
		t.Fatalf("expected 2x2, got %dx%d", p.Rows, p.Cols)
	}
	want := []string{"A", "A", "B", "B"}
	if len(p.Labels) != len(want) {
		t.Fatalf("expected %d labels, got %d", len(want), len(p.Labels))
	}
	for i, l := range want {
		if p.Labels[i] != l {
			t.Errorf("label %d: expected %q, got %q", i, l, p.Labels[i])
		}
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	input := "1x2\n\nA\n\nB\n\n"
	p, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(p.Labels))
	}
}

func TestParseEmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	if !errors.Is(err, matcherrors.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParseMalformedDimensionLine(t *testing.T) {
	cases := []string{"2by2\nA\n", "x2\nA\n", "2x\nA\n", "2\nA\n"}
	for _, in := range cases {
		if _, err := Parse(strings.NewReader(in)); !errors.Is(err, matcherrors.ErrParse) {
			t.Errorf("input %q: expected ErrParse, got %v", in, err)
		}
	}
}

func TestParseWrongLabelCount(t *testing.T) {
	_, err := Parse(strings.NewReader("2x2\nA\nB\n"))
	if !errors.Is(err, matcherrors.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}
