package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/nest/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, commands.RootCmd())
	stop()
	os.Exit(code)
}
