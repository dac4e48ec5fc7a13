package ui

import (
	"searchbar/internal/domain"
)

// searchResultMsg carries a finished request back to the update loop
type searchResultMsg struct {
	resp domain.Response
}

// pagerMsg contains the result of showing the results in the pager
type pagerMsg struct {
	err error
}
