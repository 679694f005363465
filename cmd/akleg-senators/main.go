package main

import "github.com/pfrederiksen/akleg-senators/internal/cli"

func main() {
	cli.Execute()
}
