package main

import (
	"os"

	"github.com/guimunizramos/studioid/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
