package main

import (
	"fmt"
	"os"

	"llamad/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "llamad:", err)
		os.Exit(1)
	}
}
