package cli

import (
	"log"
	"sync"

	"searchbar/internal/eventbus"
)

// sessionStats counts widget events for the exit log line and remembers
// config activity
type sessionStats struct {
	mu        sync.Mutex
	submitted int
	rendered  int
	discarded int
	failed    int
	loaded    *eventbus.ConfigLoadedEvent
	saved     []string
}

func newSessionStats(bus eventbus.EventBus) *sessionStats {
	s := &sessionStats{}
	bus.Subscribe(eventbus.EventQuerySubmitted, func(eventbus.DomainEvent) { s.inc(&s.submitted) })
	bus.Subscribe(eventbus.EventResultsRendered, func(eventbus.DomainEvent) { s.inc(&s.rendered) })
	bus.Subscribe(eventbus.EventResponseDiscarded, func(eventbus.DomainEvent) { s.inc(&s.discarded) })
	bus.Subscribe(eventbus.EventSearchFailed, func(eventbus.DomainEvent) { s.inc(&s.failed) })
	bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		loaded := e.(eventbus.ConfigLoadedEvent)
		s.mu.Lock()
		s.loaded = &loaded
		s.mu.Unlock()
	})
	bus.Subscribe(eventbus.EventConfigSaved, func(e eventbus.DomainEvent) {
		s.mu.Lock()
		s.saved = append(s.saved, e.(eventbus.ConfigSavedEvent).Path)
		s.mu.Unlock()
	})
	return s
}

func (s *sessionStats) inc(n *int) {
	s.mu.Lock()
	*n++
	s.mu.Unlock()
}

// Saved returns the config files written during the session
func (s *sessionStats) Saved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved...)
}

// Log writes the totals to the log
func (s *sessionStats) Log() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded != nil {
		log.Printf("Config: endpoint %s, trigger %s", s.loaded.Endpoint, s.loaded.Trigger)
	}
	log.Printf("Session: %d queries, %d rendered, %d discarded, %d failed",
		s.submitted, s.rendered, s.discarded, s.failed)
}
