package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ohowland/ehub_core/internal/pkg/database/mongodb"
	"github.com/ohowland/ehub_core/internal/pkg/datasource"
	"github.com/ohowland/ehub_core/internal/pkg/datastreams/natshandler"
	"github.com/ohowland/ehub_core/internal/pkg/hub"
	"github.com/ohowland/ehub_core/internal/pkg/solver/highssolver"
)

func main() {
	log.Println("[Main] Starting EHub_Core v0.0.1")

	dataPath := flag.String("data", "./config/hub/dataset.json", "path to the hub dataset json")
	points := flag.Int("points", 5, "number of pareto frontier points")
	workers := flag.Int("workers", 2, "concurrent pareto solves")
	single := flag.Bool("single", false, "single cost-optimal solve, no frontier")
	mongoConfig := flag.String("mongo", "", "mongodb handler config json, empty disables")
	natsConfig := flag.String("nats", "", "nats handler config json, empty disables")
	flag.Parse()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sigs
		log.Println("[Main] Shutdown requested")
		cancel()
	}()

	log.Println("[Main] Loading Dataset")
	ds, err := datasource.FromFile(*dataPath)
	if err != nil {
		panic(err)
	}

	log.Println("[Main] Building Hub")
	h, err := hub.New(ds, *points, highssolver.New())
	if err != nil {
		panic(err)
	}
	h.SetWorkers(*workers)

	if *mongoConfig != "" {
		log.Println("[Main] Connecting MongoDB Service")
		mongoHandler, err := mongodb.New(*mongoConfig, h)
		if err != nil {
			panic(err)
		}
		go mongoHandler.Process()
		defer mongoHandler.StopProcess()
	}

	if *natsConfig != "" {
		log.Println("[Main] Connecting NATS Service")
		natsHandler, err := natshandler.New(*natsConfig, h)
		if err != nil {
			panic(err)
		}
		go natsHandler.Process()
		defer natsHandler.Stop()
	}

	if *single {
		runSingle(ctx, h)
		return
	}
	runPareto(ctx, h)
}

func runSingle(ctx context.Context, h *hub.Hub) {
	res, err := h.SolveSingle(ctx)
	if err != nil {
		panic(err)
	}
	log.Printf("[Main] Total cost: %.2f", res.Cost)
	log.Printf("[Main] Total carbon: %.2f", res.Carbon)
	logDesign(res)
}

func runPareto(ctx context.Context, h *hub.Hub) {
	frontier, err := h.SolvePareto(ctx)
	if err != nil {
		panic(err)
	}
	for _, p := range frontier.Points {
		log.Printf("[Main] point %d: cost %.2f carbon %.2f", p.Step, p.Cost, p.Carbon)
	}
	for _, s := range frontier.Skipped {
		log.Printf("[Main] point %d skipped: %s", s.Step, s.Reason)
	}
}

func logDesign(res hub.Result) {
	for tech, installed := range res.Installed {
		if !installed {
			continue
		}
		log.Printf("[Main] install %s, capacity %.2f", tech, res.Capacities[tech])
	}
	for out, size := range res.StorageCapacities {
		if size > 0 {
			log.Printf("[Main] storage for %s, capacity %.2f", out, size)
		}
	}
}
