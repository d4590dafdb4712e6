package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storefront/pkg/app"
)

// main is the entry point process managers start; see storefront.go for the
// root-level variant.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args[1:], nil); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		stop()
		os.Exit(1)
	}
}
