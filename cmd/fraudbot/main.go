// FraudBot - card-fraud confirmation demo agent.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/velvetlabs/chorus/pkg/app"
	"github.com/velvetlabs/chorus/pkg/fraud"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	webAddr := flag.String("web", "", "Dashboard listen address (e.g. :8090), empty to disable")
	voice := flag.String("voice", "", "Voice ID for the agent")
	flag.Parse()

	store, err := fraud.NewStore()
	if err != nil {
		log.Fatalf("open fraud store: %v", err)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := store.Seed(ctx, fraud.DemoCases()); err != nil {
		log.Fatalf("seed fraud cases: %v", err)
	}

	a, err := app.New(app.Config{
		Name:         "fraudbot",
		Instructions: fraud.Instructions,
		Tools:        fraud.Tools(store),
		Voice:        *voice,
		WebAddr:      *webAddr,
		Debug:        *debug,
	})
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	defer a.Shutdown()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("runtime error: %v", err)
	}
}
