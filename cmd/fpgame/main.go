package main

import "github.com/mcoot/fourpics/internal/cli"

func main() {
	cli.Execute()
}
