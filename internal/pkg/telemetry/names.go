package telemetry

// Span names.
const (
	SpanFetchCurrent = "wheretheiss.current"
	SpanFetchHistory = "wheretheiss.history"
)

// Span attribute keys.
const (
	AttrHTTPStatus       = "http.status_code"
	AttrHistoryRequested = "history.requested"
	AttrHistoryReceived  = "history.received"
	AttrServiceName      = "service.name"
	AttrServiceNamespace = "service.namespace"
)

const defaultServiceNamespace = "orbitrack"
