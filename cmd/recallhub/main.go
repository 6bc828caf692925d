package main

import (
	"context"
	"os"

	"github.com/habiliai/recallhub/cmd/recallhub/cmd"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cmd.NewRootCmd(version).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
