//go:build js && wasm

// Command searchbar-wasm is the browser build of the search widget. Serve it
// with `searchbar serve` or any static host next to a page that provides
// #search_bar, #search_btn and #search_list.
package main

import (
	"log"

	"searchbar/internal/web"
)

func main() {
	page, err := web.Bind()
	if err != nil {
		log.Fatalln(err)
	}
	page.Listen()

	select {}
}
