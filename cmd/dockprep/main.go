// Command dockprep is the command-line interface of the preparation
// pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/turtacn/dockprep/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
