//go:build js && wasm

// Package web binds the search widget to a browser page.
//
// The page must contain three elements: an input with id "search_bar", an
// activatable control with id "search_btn" and a container with id
// "search_list". They are looked up once by Bind.
package web

import (
	"context"
	"fmt"

	"honnef.co/go/js/dom/v2"

	"searchbar/internal/domain"
	"searchbar/internal/search"
	"searchbar/internal/widget"
)

// Element ids of the page contract
const (
	SearchBarID  = "search_bar"
	SearchBtnID  = "search_btn"
	SearchListID = "search_list"
)

// Page is a widget bound to the current document
type Page struct {
	document dom.HTMLDocument
	bar      *dom.HTMLInputElement
	btn      dom.HTMLElement
	list     dom.Element
	widget   *widget.Widget
}

// inputValue reads the search bar
type inputValue struct{ el *dom.HTMLInputElement }

func (i inputValue) Value() string { return i.el.Value() }

// paragraphList renders every result as a <p> inside the container
type paragraphList struct {
	document dom.HTMLDocument
	el       dom.Element
}

func (l paragraphList) Replace(items domain.ResultList) {
	l.el.SetInnerHTML("")
	for _, item := range items {
		p := l.document.CreateElement("p")
		// Results are trusted markup and are not escaped.
		p.SetInnerHTML(item)
		l.el.AppendChild(p)
	}
}

// Bind resolves the page elements and builds the widget. Requests go to
// "api/search" relative to the page location. A data-trigger="enter"
// attribute on the search bar restricts key-release submission to Enter.
func Bind() (*Page, error) {
	document := dom.GetWindow().Document().(dom.HTMLDocument)

	bar, ok := document.GetElementByID(SearchBarID).(*dom.HTMLInputElement)
	if !ok {
		return nil, fmt.Errorf("element #%s is missing or not an input", SearchBarID)
	}
	btn, ok := document.GetElementByID(SearchBtnID).(dom.HTMLElement)
	if !ok {
		return nil, fmt.Errorf("element #%s is missing", SearchBtnID)
	}
	list := document.GetElementByID(SearchListID)
	if list == nil {
		return nil, fmt.Errorf("element #%s is missing", SearchListID)
	}

	policy, err := widget.ParsePolicy(bar.GetAttribute("data-trigger"))
	if err != nil {
		return nil, err
	}

	client, err := search.NewClient(dom.GetWindow().Location().Href(), nil, 0)
	if err != nil {
		return nil, err
	}

	p := &Page{
		document: document,
		bar:      bar,
		btn:      btn,
		list:     list,
	}
	p.widget = widget.New(widget.Bindings{
		SearchBar:  inputValue{bar},
		SearchList: paragraphList{document: document, el: list},
	}, client, policy, nil)

	return p, nil
}

// Listen installs the event handlers. Key releases in the search bar and
// button clicks both submit through the widget, which applies the policy.
func (p *Page) Listen() {
	p.bar.AddEventListener("keyup", false, func(event dom.Event) {
		event.PreventDefault()
		key := ""
		if ke, ok := event.(*dom.KeyboardEvent); ok {
			key = ke.Key()
		}
		if pending, ok := p.widget.KeyUp(key); ok {
			p.run(pending)
		}
	})

	p.btn.AddEventListener("click", false, func(event dom.Event) {
		p.run(p.widget.Click())
	})
}

// run sends a request without blocking the JS event loop
func (p *Page) run(pending widget.Pending) {
	go func() {
		p.widget.Apply(pending(context.Background()))
	}()
}
