//go:build e2e && unix

package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend answers each query with files named after it
type backend struct {
	mu      sync.Mutex
	queries []string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/api/search" {
		http.NotFound(w, r)
		return
	}
	raw, _ := io.ReadAll(r.Body)
	q := string(raw)

	b.mu.Lock()
	b.queries = append(b.queries, q)
	b.mu.Unlock()

	if q == "" {
		io.WriteString(w, `[]`)
		return
	}
	io.WriteString(w, `["docs/`+q+`.txt","notes/`+q+`.md"]`)
}

func (b *backend) Queries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.queries...)
}

func startSearch(t *testing.T, args ...string) (*Terminal, *backend) {
	t.Helper()
	be := &backend{}
	srv := httptest.NewServer(be)
	t.Cleanup(srv.Close)

	term := NewTerminal(t)
	require.NoError(t, term.Start(append([]string{"--endpoint", srv.URL + "/"}, args...)...))
	require.True(t, term.Ready(), "app should signal readiness")
	return term, be
}

func TestSearchAsYouType(t *testing.T) {
	term, be := startSearch(t)

	require.NoError(t, term.Type("tfidf"))
	require.True(t, term.See("docs/tfidf.txt"), "results for the full query should render")
	assert.True(t, term.See("notes/tfidf.md"))

	assert.Eventually(t, func() bool { return len(be.Queries()) == 5 }, 3*time.Second, 25*time.Millisecond)
	assert.Equal(t, []string{"t", "tf", "tfi", "tfid", "tfidf"}, be.Queries())

	require.NoError(t, term.Quit())
	assert.True(t, term.Exited(3*time.Second))
}

func TestEnterOnlyTrigger(t *testing.T) {
	term, be := startSearch(t, "--trigger", "enter")

	require.NoError(t, term.Type("index"))
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, be.Queries(), "typing alone does not search")

	require.NoError(t, term.Enter())
	require.True(t, term.See("docs/index.txt"))
	assert.Equal(t, []string{"index"}, be.Queries())
}

func TestSubmitKeySearches(t *testing.T) {
	term, be := startSearch(t, "--trigger", "enter")

	require.NoError(t, term.Type("raw"))
	require.NoError(t, term.Submit())
	require.True(t, term.See("notes/raw.md"))
	assert.Equal(t, []string{"raw"}, be.Queries())
}

func TestClearingQueryClearsResults(t *testing.T) {
	term, be := startSearch(t)

	require.NoError(t, term.Type("a"))
	require.True(t, term.See("docs/a.txt"))

	require.NoError(t, term.Send(KeyBackspace))
	require.True(t, term.See("0 results"))
	assert.Equal(t, []string{"a", ""}, be.Queries())
}
