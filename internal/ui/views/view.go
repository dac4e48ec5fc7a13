package views

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"searchbar/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width      int
	Height     int
	Endpoint   string
	SearchBar  string // already rendered text input
	Results    string // already rendered result viewport
	Scroll     float64
	Scrolling  bool // results overflow the viewport
	Rendered   bool // at least one response has been rendered
	Count      int
	Size       int
	InFlight   int
	Policy     string
	Help       string
	ShowStatus bool
	Ready      bool // print the e2e ready marker
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// RenderResults turns a result list into viewport content, one line per
// item, in order. Items are written as-is; an empty list renders nothing.
func (r *Renderer) RenderResults(items domain.ResultList) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = r.styles.Result.Render(item)
	}
	return strings.Join(lines, "\n")
}

// ResultsHeight returns how many rows the result viewport may use
func ResultsHeight(height int, showStatus bool) int {
	// title + search bar (3 rows with border) + help
	used := 1 + 3 + 1
	if showStatus {
		used++
	}
	if h := height - used; h > 1 {
		return h
	}
	return 1
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("searchbar"))
	b.WriteString(" ")
	b.WriteString(r.styles.Endpoint.Render(state.Endpoint))
	b.WriteString("\n")

	bar := r.styles.SearchBar
	if state.Width > 2 {
		bar = bar.Width(state.Width - 2)
	}
	b.WriteString(bar.Render(state.SearchBar))
	b.WriteString("\n")

	b.WriteString(state.Results)
	b.WriteString("\n")

	if state.ShowStatus {
		b.WriteString(r.renderStatus(state))
		b.WriteString("\n")
	}

	b.WriteString(r.styles.Help.Render(state.Help))

	if state.Ready {
		b.WriteString("\n__READY__")
	}

	return b.String()
}

func (r *Renderer) renderStatus(state ViewState) string {
	parts := []string{}

	if state.InFlight > 0 {
		parts = append(parts, r.styles.StatusLoading.Render(fmt.Sprintf("searching (%d in flight)", state.InFlight)))
	}
	if state.Rendered {
		noun := "results"
		if state.Count == 1 {
			noun = "result"
		}
		parts = append(parts, r.styles.StatusSuccess.Render(
			fmt.Sprintf("%d %s, %s", state.Count, noun, humanize.Bytes(uint64(state.Size)))))
	}
	parts = append(parts, r.styles.Status.Render("trigger: "+state.Policy))
	if state.Scrolling {
		parts = append(parts, r.styles.Scroll.Render(fmt.Sprintf("%3.f%%", state.Scroll*100)))
	}

	return strings.Join(parts, r.styles.Status.Render(" · "))
}
