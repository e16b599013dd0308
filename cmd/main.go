package main

import (
	"github.com/dyike/ETFScope/internal/cli"
)

func main() {
	cli.Run()
}
