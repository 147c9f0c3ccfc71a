package logger

import (
	"context"
	"log/slog"
)

// Masker replaces sensitive text in a string.
type Masker interface {
	Mask(s string) string
}

// MaskingHandler is a slog.Handler that passes the message and every string
// attribute of a record through a Masker before forwarding it.
type MaskingHandler struct {
	handler slog.Handler
	masker  Masker
}

// NewMaskingHandler wraps handler. A nil masker forwards records unchanged.
func NewMaskingHandler(handler slog.Handler, masker Masker) *MaskingHandler {
	return &MaskingHandler{handler: handler, masker: masker}
}

// Enabled implements the slog.Handler interface.
func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.maskAttr(a)
	}
	return &MaskingHandler{handler: h.handler.WithAttrs(masked), masker: h.masker}
}

// WithGroup implements the slog.Handler interface.
func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{handler: h.handler.WithGroup(name), masker: h.masker}
}

// Handle implements the slog.Handler interface.
func (h *MaskingHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.masker == nil {
		return h.handler.Handle(ctx, record)
	}

	masked := slog.NewRecord(record.Time, record.Level, h.masker.Mask(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

func (h *MaskingHandler) maskAttr(a slog.Attr) slog.Attr {
	if h.masker == nil {
		return a
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.masker.Mask(v.String()))
	case slog.KindGroup:
		group := v.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = h.maskAttr(ga)
		}
		return slog.Group(a.Key, masked...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, h.masker.Mask(err.Error()))
		}
		return slog.Attr{Key: a.Key, Value: v}
	default:
		return slog.Attr{Key: a.Key, Value: v}
	}
}
