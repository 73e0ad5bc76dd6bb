package main

import "github.com/renjie/prism-units/internal/cli"

func main() {
	cli.Execute()
}
