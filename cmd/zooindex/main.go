package main

import (
	"os"

	"github.com/runchengxie/a-share-animal-index/cmd/zooindex/commands"
)

// main is the entry point for the zoo index CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/zooindex [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
