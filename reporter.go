package graffiti

import (
	"context"
	"errors"

	"github.com/gogpu/graffiti/glyph"
	"github.com/gogpu/graffiti/svgsafe"
)

// ErrNilSource is returned by New when no glyph source is given.
var ErrNilSource = errors.New("graffiti: nil glyph source")

// Reporter receives failures that were degraded rather than returned:
// glyphs that could not be fetched, processed or composed, and markup
// constructs the sanitizer removed from an otherwise usable glyph.
//
// Reporter must be safe for concurrent use; glyph failures are reported
// from the fetch goroutines.
type Reporter interface {
	Report(ctx context.Context, err error)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, err error)

// Report calls f.
func (f ReporterFunc) Report(ctx context.Context, err error) {
	f(ctx, err)
}

// logReporter reports through Logger at warn level.
type logReporter struct{}

func (logReporter) Report(ctx context.Context, err error) {
	args := []any{"err", err}
	var fe *glyph.FetchError
	if errors.As(err, &fe) {
		args = append(args, letterAttr(fe.Letter))
	}
	msg := "graffiti: glyph replaced by placeholder"
	var rej *svgsafe.RejectedError
	if errors.As(err, &rej) {
		msg = "graffiti: glyph markup sanitized"
	}
	Logger().WarnContext(ctx, msg, args...)
}
