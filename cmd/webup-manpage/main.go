package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/webup/internal/commands"
)

func main() {
	if err := commands.GenMan(commands.NewRootCmd(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
