package canvas

// EventKind discriminates the per-session event stream.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventReady    EventKind = "ready"
	EventQuestion EventKind = "question"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// Stable error codes carried on error events.
const (
	CodeStartError  = "START_ERROR"
	CodeAnswerError = "ANSWER_ERROR"
)

// Event is one entry in a session's ordered notification stream.
type Event struct {
	Kind      EventKind `json:"type"`
	Message   string    `json:"message,omitempty"`
	Code      string    `json:"code,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Question  *Question `json:"question,omitempty"`
	Canvas    *Snapshot `json:"canvas,omitempty"`
}

// Emitter receives events in order. Implementations must not block for long;
// the transport layer buffers writes.
type Emitter func(Event)

func progressEvent(message string) Event {
	return Event{Kind: EventProgress, Message: message}
}

func errorEvent(code, sessionID string, err error) Event {
	return Event{Kind: EventError, Code: code, SessionID: sessionID, Message: err.Error()}
}
