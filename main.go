package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"easel/internal/config"
	mcpserver "easel/internal/mcp"
	"easel/internal/service"
	"easel/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := storage.New(cfg.DBPath, cfg.DataDir)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	emitter := service.NoopEmitter{}
	docStore := storage.NewDocumentStore(db)
	docs := service.NewDocumentService(
		docStore, cfg.DataDir, emitter,
		cfg.CanvasWidth, cfg.CanvasHeight, cfg.Background, cfg.DefaultFontSize,
	)

	stopAutosave, err := docs.StartAutosave(ctx, cfg.AutosaveCron)
	if err != nil {
		log.Fatalf("autosave: %v", err)
	}
	defer stopAutosave()

	stopWatch, err := docs.WatchLinkedFiles(ctx)
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	defer stopWatch()

	srv := mcpserver.New(mcpserver.Deps{Emitter: emitter, Documents: docs})

	done := make(chan error, 1)
	go func() { done <- srv.ServeStdio() }()

	select {
	case <-ctx.Done():
	case err := <-done:
		if err != nil {
			log.Printf("mcp: server stopped: %v", err)
		}
	}

	if err := docs.SaveAll(context.Background()); err != nil {
		log.Printf("shutdown: save failed: %v", err)
	}
}
