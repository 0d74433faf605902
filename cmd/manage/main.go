package main

import (
	"os"

	"github.com/Domenick1991/airline/internal/cli"
)

func main() {
	os.Exit(cli.New().Execute())
}
