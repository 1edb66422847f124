package tracing

// Span attribute keys.
const (
	AttrDeckFrom      = "deck.from"
	AttrDeckTo        = "deck.to"
	AttrDeckRequested = "deck.requested"
	AttrDeckSource    = "deck.source"
	AttrDeckCount     = "deck.count"

	AttrFitTrigger = "fit.trigger"
	AttrFitScale   = "fit.scale"

	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"
	AttrRequestID  = "request.id"
	AttrClientID   = "remote.client.id"
)

// Span names.
const (
	SpanGoTo      = "deck.goto"
	SpanFit       = "deck.fit"
	SpanLoad      = "source.load"
	SpanRemote    = "remote.http"
	SpanRemoteMsg = "remote.ws.message"
)
