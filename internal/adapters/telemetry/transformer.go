// Package telemetry provides an OpenTelemetry-backed tdb.Transformer that
// wraps each target's build callable in a span, plus a no-op variant for
// when tracing is disabled. Telemetry is purely additive instrumentation:
// the engine's correctness never depends on it.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tdbtool/tdb"
)

// Transformer returns a tdb.Transformer that starts a span named after the
// target before running the wrapped callable, and records success/failure
// on it.
func Transformer(instrumentationName string) tdb.Transformer {
	tracer := otel.Tracer(instrumentationName)
	return func(next tdb.BuildFunc) tdb.BuildFunc {
		return func(ctx context.Context, bc *tdb.BuildContext) error {
			ctx, span := tracer.Start(ctx, bc.Target.String())
			defer span.End()

			span.SetAttributes(attribute.Int("tdb.prereq_count", len(bc.Prereqs)))

			err := next(ctx, bc)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		}
	}
}

// NoOp is the identity transformer, for when tracing is disabled.
func NoOp(next tdb.BuildFunc) tdb.BuildFunc {
	return next
}
