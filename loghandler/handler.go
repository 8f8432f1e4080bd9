// Package loghandler provides a compact slog.Handler used by every
// long-running process in this module (the transport server and the
// simulate driver), so board activity reads as one short line per event
// instead of slog's default multi-field text.
package loghandler

import (
	"context"
	"io"
	"log/slog"
)

const timeFormat = "2006/01/02 15:04:05"

// tagKey is the attribute name treated specially: when present it is
// rendered as a "[tag] " prefix right after the timestamp instead of
// appearing in the trailing key=value list.
const tagKey = "tag"

// CompactHandler writes records as:
//
//	2006/01/02 15:04:05 [tag] message key=value key=value
//
// No level is written. Omitting it keeps the simulate driver's
// move-by-move output readable at a glance.
type CompactHandler struct {
	w     io.Writer
	level slog.Level
}

// NewCompactHandler returns a handler writing to w, discarding records
// below level.
func NewCompactHandler(w io.Writer, level slog.Level) *CompactHandler {
	return &CompactHandler{w: w, level: level}
}

func (h *CompactHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *CompactHandler) Handle(_ context.Context, r slog.Record) error {
	var tag string
	rest := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == tagKey && a.Value.Kind() == slog.KindString {
			tag = a.Value.String()
			return true
		}
		rest = append(rest, a)
		return true
	})

	buf := make([]byte, 0, 128+len(r.Message))
	buf = append(buf, r.Time.Format(timeFormat)...)
	buf = append(buf, ' ')
	if tag != "" {
		buf = append(buf, '[')
		buf = append(buf, tag...)
		buf = append(buf, "] "...)
	}
	buf = append(buf, r.Message...)
	for _, a := range rest {
		buf = append(buf, ' ')
		buf = append(buf, a.Key...)
		buf = append(buf, '=')
		buf = append(buf, a.Value.String()...)
	}
	buf = append(buf, '\n')

	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns h unchanged. Attributes attached through Logger.With
// are dropped: they do not appear in the output.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

// WithGroup is a no-op; CompactHandler's flat output has no group nesting.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return h
}
