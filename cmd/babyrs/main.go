// Command babyrs launches the care-event logger.
package main

import (
	"fmt"
	"os"

	"github.com/cerridwen-io/babyrs/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
