package main

import (
	"fmt"
	"os"

	"github.com/DhavalSuthar-24/crease/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
