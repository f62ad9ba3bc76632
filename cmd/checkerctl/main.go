package main

import (
	"github.com/chala47/checker/internal/cli"
)

func main() {
	cli.Execute()
}
