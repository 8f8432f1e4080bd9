package transport

import (
	"context"
	"fmt"
	"strings"

	"memoryscramble/game"
)

// labelFuncs holds every named relabel transform the "map" message can
// invoke, generalizing the teacher's powerup.Registry id-lookup pattern
// (a string id resolving to a concrete callback) from power-ups to
// relabel transforms. The websocket wire has no way to carry an arbitrary
// caller-supplied function, so the transport exposes a small fixed set
// instead and the map message names one by id.
var labelFuncs = map[string]game.LabelFunc{
	"uppercase": func(_ context.Context, label string) (string, error) {
		return strings.ToUpper(label), nil
	},
	"lowercase": func(_ context.Context, label string) (string, error) {
		return strings.ToLower(label), nil
	},
	"reverse": func(_ context.Context, label string) (string, error) {
		r := []rune(label)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r), nil
	},
	"identity": func(_ context.Context, label string) (string, error) {
		return label, nil
	},
}

// ErrUnknownTransform is returned when a map message names a transform id
// not present in labelFuncs.
var ErrUnknownTransform = fmt.Errorf("unknown transform")

// LabelFuncByName resolves a map message's transform id to a game.LabelFunc.
func LabelFuncByName(name string) (game.LabelFunc, error) {
	f, ok := labelFuncs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, name)
	}
	return f, nil
}
