package main

import (
	"context"
	"log/slog"
	"os"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("oscdrift failed", "err", err)
		os.Exit(1)
	}
}
