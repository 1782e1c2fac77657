package main

import (
	"os"

	"github.com/quarryhq/graphrag/cmd/graphrag"
)

func main() {
	if err := graphrag.Execute(); err != nil {
		os.Exit(1)
	}
}
