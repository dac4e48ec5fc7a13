package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQuerySubmitted    EventType = "QuerySubmitted"
	EventResultsRendered   EventType = "ResultsRendered"
	EventResponseDiscarded EventType = "ResponseDiscarded"
	EventSearchFailed      EventType = "SearchFailed"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QuerySubmittedEvent is emitted when the widget sends a query to the backend
type QuerySubmittedEvent struct {
	Submission Submission
	Trigger    Trigger
	Key        string // released key, empty for button activations
}

func (e QuerySubmittedEvent) Type() EventType { return EventQuerySubmitted }

// ResultsRenderedEvent is emitted after the results container was replaced
type ResultsRenderedEvent struct {
	Seq   uint64
	Count int
}

func (e ResultsRenderedEvent) Type() EventType { return EventResultsRendered }

// ResponseDiscardedEvent is emitted when a response arrives after a newer
// submission was issued
type ResponseDiscardedEvent struct {
	Seq    uint64
	Latest uint64
}

func (e ResponseDiscardedEvent) Type() EventType { return EventResponseDiscarded }

// SearchFailedEvent is emitted when a request fails in transport, status or decoding
type SearchFailedEvent struct {
	Seq   uint64
	Query Query
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Endpoint string
	Trigger  string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
