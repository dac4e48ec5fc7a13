package domain

// Query is the raw text submitted for search. It is sent exactly as typed:
// no trimming, no validation and no encoding.
type Query = string

// ResultItem is a single match returned by the backend, usually a file path.
// It is treated as an opaque display string.
type ResultItem = string

// ResultList is the ordered list of matches for one response
type ResultList []ResultItem

// Submission represents one triggered search request
type Submission struct {
	Seq   uint64 // strictly increasing per widget
	Query Query
}

// Response is the outcome of a submission once the backend has answered
type Response struct {
	Seq     uint64
	Query   Query
	Results ResultList
	Size    int // response body size in bytes, 0 on failure
	Err     error
}

// Trigger identifies what started a submission
type Trigger string

const (
	TriggerButton Trigger = "button" // the submit control was activated
	TriggerKeyUp  Trigger = "keyup"  // a key was released in the search bar
)

// Result is a decoded backend answer
type Result struct {
	Items ResultList
	Size  int // body size in bytes
}
