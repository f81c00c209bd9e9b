package main

import "github.com/layer-3/jumper/internal/cli"

func main() {
	cli.Execute()
}
