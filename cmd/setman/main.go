package main

import (
	"context"
	"os"

	"github.com/veesix-networks/setman/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.NewRootCommand()))
}
