// Command mural opens the shared emotional mural: an anonymous canvas of
// drifting blobs that viewers can explore, resonate with, and tend.
package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/hushwall/mural"
	"github.com/hushwall/mural/store"
)

func main() {
	configPath := flag.String("config", "mural.toml", "path to the config file")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := mural.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("bad config", zap.String("path", *configPath), zap.Error(err))
	}

	viewer, err := mural.LoadOrCreateToken(cfg.TokenPath)
	if err != nil {
		log.Fatal("viewer token", zap.String("path", cfg.TokenPath), zap.Error(err))
	}

	var st mural.Store
	if cfg.StoreURL == "" {
		// No backend configured: run against a seeded in-memory store.
		mem := store.NewMemoryStore()
		store.Seed(mem, viewer)
		st = mem
		log.Info("using in-memory store")
	} else {
		st = store.NewClient(cfg.StoreURL, log)
		log.Info("using remote store", zap.String("url", cfg.StoreURL))
	}

	view := mural.NewView(float64(cfg.WindowWidth), float64(cfg.WindowHeight), 1)
	m := mural.NewMural(st, view, viewer, log, cfg)
	m.Start()
	defer m.Close()

	game := mural.NewGame(m)
	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Mural")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal("run", zap.Error(err))
	}
}
