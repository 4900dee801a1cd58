// Command storefront is an interactive terminal client for the shop API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/storefront"
	"github.com/Skotchmaster/storefront/pkg/cart"
	"github.com/Skotchmaster/storefront/pkg/shopclient"
)

func main() {
	_ = godotenv.Load()

	apiURL := config.EnvDefault("STOREFRONT_API_URL", "http://localhost:8080")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := shopclient.NewClient(apiURL)
	if err := client.Health(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s is not reachable: %v\n", apiURL, err)
	}

	fmt.Printf("Storefront at %s. Type help for commands.\n", apiURL)
	sh := storefront.NewShell(client, cart.New(), os.Stdout)
	if err := sh.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
