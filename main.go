package main

import (
	"os"

	"transcript-export/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
