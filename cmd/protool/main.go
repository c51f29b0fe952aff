package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mapworks-io/protool/cmd/protool/commands"
)

const (
	cmdName = "protool"

	shortDesc = "The protool Command Line Interface (CLI)."
	longDesc  = `The protool Command Line Interface (CLI).

protool automates the project routine around a desktop GIS application:
it scaffolds new projects from templates, keeps their folder connections
and default storage container consistent, produces contractor bundles by
clipping map layers to a search area, and exports attribute tables to
spreadsheets.
`
)

func main() {
	cmd := commands.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
