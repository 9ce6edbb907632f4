package main

import (
	"goalgrid/internal/cli"

	"github.com/charmbracelet/log"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatal("goalgrid", "err", err)
	}
}
