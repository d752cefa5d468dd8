package main

import (
	"context"

	"github.com/hferr/revlog/cmd"
)

func main() {
	ctx := context.Background()
	cmd.Execute(ctx)
}
