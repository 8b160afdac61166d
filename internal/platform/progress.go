package platform

import (
	"context"
	"fmt"
)

// Reporter receives human-readable status lines while a search runs. The
// CLI feeds these to its spinner; headless callers leave it unset.
type Reporter func(line string)

type reporterKey struct{}

// WithReporter returns a context carrying the status reporter.
func WithReporter(ctx context.Context, r Reporter) context.Context {
	return context.WithValue(ctx, reporterKey{}, r)
}

// Report formats one status line to the reporter in ctx. A context without
// a reporter (the MCP server, tests) makes this a no-op.
func Report(ctx context.Context, format string, args ...any) {
	r, ok := ctx.Value(reporterKey{}).(Reporter)
	if !ok || r == nil {
		return
	}
	if len(args) == 0 {
		r(format)
		return
	}
	r(fmt.Sprintf(format, args...))
}
