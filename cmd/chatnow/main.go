package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/chatnow/internal/cli"
	"github.com/ppiankov/chatnow/internal/util"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		util.Exit(util.CodeFor(err))
	}
}
