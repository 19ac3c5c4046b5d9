package analyses

import "context"

// Sources of analysis work, reported in logs as "source".
const (
	SourceAPI    = "api"
	SourceInline = "inline"
	SourceQueue  = "queue"
)

// Trace ties analysis work back to the request that started it.
type Trace struct {
	RequestID string
	Source    string
}

type traceKey struct{}

// WithTrace attaches t to ctx. Empty traces leave ctx unchanged.
func WithTrace(ctx context.Context, t Trace) context.Context {
	if ctx == nil || t == (Trace{}) {
		return ctx
	}
	return context.WithValue(ctx, traceKey{}, t)
}

func traceFrom(ctx context.Context) Trace {
	if ctx == nil {
		return Trace{}
	}
	t, _ := ctx.Value(traceKey{}).(Trace)
	return t
}

// detachInline returns a background context for in-process work that keeps
// the caller's request id.
func detachInline(ctx context.Context) context.Context {
	t := traceFrom(ctx)
	t.Source = SourceInline
	return WithTrace(context.Background(), t)
}

func (t Trace) logFields(fields map[string]any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["request_id"] = t.RequestID
	if t.Source != "" {
		fields["source"] = t.Source
	}
	return fields
}
