package main

import "github.com/adrianmusante/descriptor-tools/internal/cli"

func main() {
	cli.Execute()
}
