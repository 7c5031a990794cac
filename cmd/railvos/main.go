package main

import (
	"fmt"
	"os"

	"github.com/tcnlab/railvos/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "railvos:", err)
		os.Exit(1)
	}
}
