package main

import "github.com/lumenforge/lumend/internal/cli"

func main() {
	cli.Execute()
}
