package main

import (
	"context"
	"log"

	"github.com/fatih/color"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/bootstrap"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/config"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/server"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/tracer"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/database"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Start(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	color.Cyan("tngrm agent store - chat widget service")
	color.Green("env=%s port=%s upstream=%s", cfg.App.Environment, cfg.App.Port, cfg.Upstream.BaseURL)

	// 6. Run Server
	log.Fatal(srv.Run())
}
