package main

import (
	"os"

	"github.com/radekholy24/dnf-extra-tests/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
