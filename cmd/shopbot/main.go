// ShopBot - catalog search and ordering demo agent.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/velvetlabs/chorus/internal/config"
	"github.com/velvetlabs/chorus/pkg/app"
	"github.com/velvetlabs/chorus/pkg/merchant"
)

func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	webAddr := flag.String("web", "", "Dashboard listen address (e.g. :8090), empty to disable")
	voice := flag.String("voice", "", "Voice ID for the agent")
	catalogPath := flag.String("catalog", "", "Path to a products JSON file (default: built-in catalog)")
	ordersPath := flag.String("orders", "", "Path to the order log (default: data dir)")
	flag.Parse()

	catalog := merchant.DefaultCatalog()
	if *catalogPath != "" {
		loaded, err := merchant.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("load catalog: %v", err)
		}
		catalog = loaded
	}

	logPath := *ordersPath
	if logPath == "" {
		p, err := config.DataPath("orders.json")
		if err != nil {
			log.Fatalf("resolve order log path: %v", err)
		}
		logPath = p
	}

	store, err := merchant.NewStore(logPath, catalog)
	if err != nil {
		log.Fatalf("open order store: %v", err)
	}

	a, err := app.New(app.Config{
		Name:         "shopbot",
		Instructions: merchant.Instructions,
		Tools:        merchant.Tools(merchant.ToolsConfig{Catalog: catalog, Store: store}),
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
