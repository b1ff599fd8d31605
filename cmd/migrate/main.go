package main

import (
	"log"

	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/config"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/internal/model"
	"github.com/vigneshgurumohan/tngrm-agent-store-sub000/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	if err := db.AutoMigrate(
		&model.ChatSession{},
		&model.ChatMessage{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migration completed")
}
