package main

import (
	"os"

	"github.com/custodia-labs/examprep/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute("index-markdown", os.Args[1:]))
}
