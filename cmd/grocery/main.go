// GroceryBot - grocery cart and mock delivery demo agent.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/velvetlabs/chorus/pkg/app"
	"github.com/velvetlabs/chorus/pkg/grocery"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	webAddr := flag.String("web", "", "Dashboard listen address (e.g. :8090), empty to disable")
	voice := flag.String("voice", "", "Voice ID for the agent")
	flag.Parse()

	a, err := app.New(app.Config{
		Name:         "grocery",
		Instructions: grocery.Instructions,
		Tools:        grocery.Tools(grocery.NewCart()),
		Voice:        *voice,
		WebAddr:      *webAddr,
		Debug:        *debug,
	})
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	defer a.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}
