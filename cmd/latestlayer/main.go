package main

import "github.com/cbout22/latestlayer/internal/cli"

func main() {
	cli.Execute()
}
