package main

import (
	"os"

	"github.com/custodia-labs/examprep/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.Execute("build-guide", os.Args[1:]))
}
