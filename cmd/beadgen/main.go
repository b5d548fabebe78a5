package main

import (
	"fmt"
	"os"

	"bead-pattern/cmd/beadgen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
