package main

import (
	"log"
	"os"

	"github.com/cwbudde/primify/internal/cli"
)

func main() {
	if err := cli.Root.Execute(); err != nil {
		log.Fatalf("Error: %v\n", err)
		os.Exit(1)
	}
}
