package main

import (
	"os"

	"github.com/faunawatch/faunawatch-go/cmd"
)

func main() {
	rootCmd := cmd.RootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
