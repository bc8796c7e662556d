package ctxutil

import "context"

type traceDataKey struct{}

// TraceData ties one inbound request to its log lines and spans.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) (TraceData, bool) {
	if ctx == nil {
		return TraceData{}, false
	}
	td, ok := ctx.Value(traceDataKey{}).(TraceData)
	return td, ok
}

// LogFields returns the non-empty ids as logger key/value pairs.
func (td TraceData) LogFields() []interface{} {
	var kv []interface{}
	if td.TraceID != "" {
		kv = append(kv, "trace_id", td.TraceID)
	}
	if td.RequestID != "" {
		kv = append(kv, "request_id", td.RequestID)
	}
	return kv
}
