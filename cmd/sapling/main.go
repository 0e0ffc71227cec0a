// Command sapling builds and queries ordered materialized-path trees.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sapling/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
