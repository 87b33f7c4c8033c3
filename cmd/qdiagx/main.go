// Command qdiagx expands the DIAG lines of quantum English files.
package main

import (
	"os"

	"qdiagx/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
