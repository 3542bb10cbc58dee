package main

import "github.com/sokomo/apctl/internal/cli"

func main() {
	cli.Execute()
}
