// Package widget implements the search widget independently of any frontend.
//
// A frontend binds its search bar and result container once, forwards key
// releases and submit-control activations, runs the returned Pending request
// off its event loop and hands the Response back to Apply. The widget
// numbers every submission; a response renders only if it belongs to the
// latest submission, so a slow early request can never overwrite the results
// of a later one.
package widget

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"searchbar/internal/domain"
	"searchbar/internal/eventbus"
	"searchbar/internal/search"
)

// Input is the search bar
type Input interface {
	Value() string
}

// Container is the results list. Replace drops every rendered item and
// renders items in order, verbatim.
type Container interface {
	Replace(items domain.ResultList)
}

// Bindings are the elements a widget works on, resolved once by the frontend
type Bindings struct {
	SearchBar  Input
	SearchList Container
}

// Policy decides which key releases submit
type Policy int

const (
	// TriggerEveryKey submits on every key release, whatever the key
	TriggerEveryKey Policy = iota
	// TriggerEnterOnly submits only when Enter is released
	TriggerEnterOnly
)

func (p Policy) String() string {
	switch p {
	case TriggerEveryKey:
		return "keyup"
	case TriggerEnterOnly:
		return "enter"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps a config value ("keyup" or "enter") to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "keyup", "":
		return TriggerEveryKey, nil
	case "enter":
		return TriggerEnterOnly, nil
	default:
		return 0, fmt.Errorf("unknown trigger policy %q", s)
	}
}

// Pending is a request that has been issued but not yet sent. It blocks
// until the backend answers and never touches the result container.
type Pending func(ctx context.Context) domain.Response

// Widget is the search widget
type Widget struct {
	bind     Bindings
	searcher search.Searcher
	policy   Policy
	bus      eventbus.EventBus

	mu       sync.Mutex
	latest   uint64 // sequence number of the most recent submission
	rendered uint64 // sequence number of the response on screen
	inFlight int
}

// New creates a widget. bus may be nil.
func New(bind Bindings, searcher search.Searcher, policy Policy, bus eventbus.EventBus) *Widget {
	return &Widget{
		bind:     bind,
		searcher: searcher,
		policy:   policy,
		bus:      bus,
	}
}

// Policy returns the key-release policy the widget was built with
func (w *Widget) Policy() Policy {
	return w.policy
}

// Click is the submit control being activated, from any source
func (w *Widget) Click() Pending {
	return w.submit(domain.TriggerButton, "")
}

// KeyUp handles a key release in the search bar. It reports whether the key
// triggered a submission under the widget's policy.
func (w *Widget) KeyUp(key string) (Pending, bool) {
	if w.policy == TriggerEnterOnly && !strings.EqualFold(key, "enter") {
		return nil, false
	}
	return w.submit(domain.TriggerKeyUp, key), true
}

func (w *Widget) submit(trigger domain.Trigger, key string) Pending {
	// The value is captured now; later edits do not affect this request.
	query := w.bind.SearchBar.Value()
	log.Printf("query %s", query)

	w.mu.Lock()
	w.latest++
	w.inFlight++
	sub := domain.Submission{Seq: w.latest, Query: query}
	w.mu.Unlock()

	w.publish(eventbus.QuerySubmittedEvent{Submission: sub, Trigger: trigger, Key: key})

	return func(ctx context.Context) domain.Response {
		res, err := w.searcher.Search(ctx, sub.Query)
		return domain.Response{
			Seq:     sub.Seq,
			Query:   sub.Query,
			Results: res.Items,
			Size:    res.Size,
			Err:     err,
		}
	}
}

// Apply renders resp if it succeeded and belongs to the latest submission.
// Failed and stale responses leave the container untouched. It reports
// whether the container was replaced.
func (w *Widget) Apply(resp domain.Response) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.inFlight > 0 {
		w.inFlight--
	}

	if resp.Err != nil {
		log.Printf("search %d for %q failed: %v", resp.Seq, resp.Query, resp.Err)
		w.publish(eventbus.SearchFailedEvent{Seq: resp.Seq, Query: resp.Query, Err: resp.Err})
		return false
	}

	if resp.Seq < w.latest {
		log.Printf("discarding response %d, latest submission is %d", resp.Seq, w.latest)
		w.publish(eventbus.ResponseDiscardedEvent{Seq: resp.Seq, Latest: w.latest})
		return false
	}

	w.bind.SearchList.Replace(resp.Results)
	w.rendered = resp.Seq
	w.publish(eventbus.ResultsRenderedEvent{Seq: resp.Seq, Count: len(resp.Results)})
	return true
}

// InFlight returns the number of submissions without an applied response
func (w *Widget) InFlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inFlight
}

// Latest returns the sequence number of the most recent submission
func (w *Widget) Latest() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// Rendered returns the sequence number of the response currently displayed,
// 0 if nothing has been rendered yet
func (w *Widget) Rendered() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rendered
}

func (w *Widget) publish(e eventbus.DomainEvent) {
	if w.bus != nil {
		w.bus.Publish(e)
	}
}
