package main

import "searchbar/internal/cli"

func main() {
	cli.Execute()
}
