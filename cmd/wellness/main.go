// CheckInBot - daily wellness check-in demo agent.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/velvetlabs/chorus/internal/config"
	"github.com/velvetlabs/chorus/pkg/app"
	"github.com/velvetlabs/chorus/pkg/wellness"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	webAddr := flag.String("web", "", "Dashboard listen address (e.g. :8090), empty to disable")
	voice := flag.String("voice", "", "Voice ID for the agent")
	storePath := flag.String("store", "", "Path to the check-in log (default: data dir)")
	flag.Parse()

	path := *storePath
	if path == "" {
		p, err := config.DataPath("checkins.json")
		if err != nil {
			log.Fatalf("resolve check-in store path: %v", err)
		}
		path = p
	}

	store, err := wellness.NewStore(path)
	if err != nil {
		log.Fatalf("open check-in store: %v", err)
	}

	a, err := app.New(app.Config{
		Name:         "wellness",
		Instructions: wellness.Instructions,
		Tools:        wellness.Tools(store),
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
