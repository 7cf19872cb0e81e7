// LeadBot - sales-lead qualification demo agent for Zomato for Business.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/velvetlabs/chorus/internal/config"
	"github.com/velvetlabs/chorus/pkg/app"
	"github.com/velvetlabs/chorus/pkg/leads"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	webAddr := flag.String("web", "", "Dashboard listen address (e.g. :8090), empty to disable")
	voice := flag.String("voice", "", "Voice ID for the agent")
	storePath := flag.String("store", "", "Path to the lead log (default: data dir)")
	flag.Parse()

	path := *storePath
	if path == "" {
		p, err := config.DataPath("leads.json")
		if err != nil {
			log.Fatalf("resolve lead store path: %v", err)
		}
		path = p
	}

	store, err := leads.NewStore(path)
	if err != nil {
		log.Fatalf("open lead store: %v", err)
	}

	a, err := app.New(app.Config{
		Name:         "leadbot",
		Instructions: leads.Instructions,
		Tools:        leads.Tools(store),
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
