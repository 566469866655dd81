package main

import (
	"fmt"
	"os"

	"github.com/01moynul/sweetshop-golang/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
