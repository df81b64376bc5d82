package main

import (
	"context"
	"fmt"
	"os"

	"github.com/haguru/bloguser/config"
	"github.com/haguru/bloguser/internal/app"
)

func main() {
	ctx := context.Background()

	// create and initialize the app
	application, err := app.NewApp(ctx, config.CONFIG_PATH)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start bloguser: %v\n", err)
		os.Exit(1)
	}

	// serve until SIGINT or SIGTERM
	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bloguser stopped with error: %v\n", err)
		os.Exit(1)
	}
}
