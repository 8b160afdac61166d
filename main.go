package main

import "github.com/shopsavvy/savvy-scrape/cmd"

func main() {
	cmd.Execute()
}
