package main

import (
	"context"
	"log"

	"admissions-chatbot-be/internal/bootstrap"
	"admissions-chatbot-be/internal/config"
	"admissions-chatbot-be/internal/server"
	"admissions-chatbot-be/internal/tracer"
	"admissions-chatbot-be/pkg/database"
)

func main() {
	// Tracing is a no-op unless OTEL_ENABLED=true.
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Contact-request notifications drain in the background.
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
