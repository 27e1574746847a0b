package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc observes every record a Logger emits after the primary core has
// accepted it. The observability layer installs one to forward logs to an
// OTLP exporter; nil disables mirroring.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirror atomic.Pointer[MirrorFunc]

func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(&fn)
}

func mirrorRecord(ctx context.Context, level Level, msg string, args []any) {
	fn := mirror.Load()
	if fn == nil {
		return
	}
	(*fn)(ctx, level, msg, args...)
}
