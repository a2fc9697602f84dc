package main

import (
	"os"

	"github.com/baaaaaaaka/claude-menu/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
