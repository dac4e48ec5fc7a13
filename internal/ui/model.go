package ui

import (
	"context"
	"log"
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"searchbar/internal/config"
	"searchbar/internal/domain"
	"searchbar/internal/eventbus"
	"searchbar/internal/search"
	"searchbar/internal/ui/views"
	"searchbar/internal/widget"
)

// E2EEnv makes the model print a ready marker for the PTY test driver
const E2EEnv = "SEARCHBAR_E2E_TEST"

// Model is the terminal frontend of the search widget
type Model struct {
	ctx    context.Context
	config *config.Config
	widget *widget.Widget

	// search_bar, search_list
	input   textinput.Model
	results viewport.Model
	items   domain.ResultList

	lastCount int
	lastSize  int
	rendered  bool

	width  int
	height int
	keys   keyMap
	help   help.Model
	e2e    bool

	renderer *views.Renderer
	pager    *PagerOps
}

// searchBar exposes the text input to the widget
type searchBar struct{ m *Model }

func (s searchBar) Value() string { return s.m.input.Value() }

// searchList lets the widget replace the rendered results
type searchList struct{ m *Model }

func (s searchList) Replace(items domain.ResultList) {
	s.m.items = append(domain.ResultList(nil), items...)
	s.m.results.SetContent(s.m.renderer.RenderResults(s.m.items))
	s.m.results.GotoTop()
}

// NewModel creates the UI model. Requests run with ctx, which should live as
// long as the program.
func NewModel(ctx context.Context, cfg *config.Config, searcher search.Searcher, bus eventbus.EventBus) *Model {
	policy, err := widget.ParsePolicy(cfg.Trigger)
	if err != nil {
		log.Printf("Falling back to keyup trigger: %v", err)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = cfg.UISettings.Placeholder
	ti.Focus()

	m := &Model{
		ctx:      ctx,
		config:   cfg,
		input:    ti,
		results:  viewport.New(80, views.ResultsHeight(24, cfg.UISettings.ShowStatus)),
		keys:     defaultKeyMap(),
		help:     help.New(),
		e2e:      os.Getenv(E2EEnv) == "1",
		renderer: views.NewRenderer(),
		pager:    NewPagerOps(),
	}
	m.input.PromptStyle = m.renderer.Styles().Prompt
	m.widget = widget.New(widget.Bindings{
		SearchBar:  searchBar{m},
		SearchList: searchList{m},
	}, searcher, policy, bus)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Widget returns the underlying search widget
func (m *Model) Widget() *widget.Widget {
	return m.widget
}

// Items returns the rendered results
func (m *Model) Items() domain.ResultList {
	return m.items
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 8
		m.results.Width = msg.Width
		m.results.Height = views.ResultsHeight(msg.Height, m.config.UISettings.ShowStatus)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchResultMsg:
		if m.widget.Apply(msg.resp) {
			m.rendered = true
			m.lastCount = len(msg.resp.Results)
			m.lastSize = msg.resp.Size
		}
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			log.Printf("Pager failed: %v", msg.err)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		return m, m.send(m.widget.Click())
	case key.Matches(msg, m.keys.PageUp):
		m.results.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.results.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Pager):
		return m, m.showPager(m.items)
	}

	// Runes read from the terminal in one chunk arrive as one message; each
	// of them is a key release of its own. Pastes stay a single edit.
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 1 && !msg.Paste {
		cmds := make([]tea.Cmd, 0, 2*len(msg.Runes))
		for _, r := range msg.Runes {
			cmds = append(cmds, m.releaseKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: msg.Alt})...)
		}
		return m, tea.Batch(cmds...)
	}
	return m, tea.Batch(m.releaseKey(msg)...)
}

// releaseKey delivers one key to the search bar and then to the widget, so
// the submitted value already contains the edit, like a browser keyup
func (m *Model) releaseKey(msg tea.KeyMsg) []tea.Cmd {
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)

	pending, ok := m.widget.KeyUp(msg.String())
	if !ok {
		return []tea.Cmd{inputCmd}
	}
	return []tea.Cmd{inputCmd, m.send(pending)}
}

// send runs a pending request off the update loop
func (m *Model) send(p widget.Pending) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return searchResultMsg{resp: p(ctx)}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	return m.renderer.Render(views.ViewState{
		Width:      m.width,
		Height:     m.height,
		Endpoint:   m.config.Endpoint,
		SearchBar:  m.input.View(),
		Results:    m.results.View(),
		Scroll:     m.results.ScrollPercent(),
		Scrolling:  !(m.results.AtTop() && m.results.AtBottom()),
		Rendered:   m.rendered,
		Count:      m.lastCount,
		Size:       m.lastSize,
		InFlight:   m.widget.InFlight(),
		Policy:     m.widget.Policy().String(),
		Help:       m.help.View(m.keys),
		ShowStatus: m.config.UISettings.ShowStatus,
		Ready:      m.e2e,
	})
}
