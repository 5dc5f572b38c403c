package main

import (
	"context"
	"log"

	"github.com/studyforge/backend/config"
	"github.com/studyforge/backend/database"
	"github.com/studyforge/backend/handler"
	"github.com/studyforge/backend/models"
	"github.com/studyforge/backend/queue"
	"github.com/studyforge/backend/repository"
	"github.com/studyforge/backend/router"
	"github.com/studyforge/backend/service"
	"github.com/studyforge/backend/storage"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func autoMigrate(db *gorm.DB) {
	if err := db.AutoMigrate(&models.LibraryItem{}); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logrus.New()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	autoMigrate(db)

	store, err := storage.NewMinIOStore(&cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to init object store: %v", err)
	}

	repo := repository.NewLibraryRepository(db)

	transcriber := service.NewWhisperTranscriber(&cfg.Transcription)
	generator := service.NewGatewayGenerator(&cfg.Gateway, logger)
	illustrator := service.NewGatewayIllustrator(&cfg.Gateway)
	pipeline := service.NewPipeline(repo, store, transcriber, generator, illustrator, logger)

	publisher := queue.NewPublisher(&cfg.Kafka)
	defer publisher.Close()
	library := service.NewLibraryService(repo, store, publisher, logger)

	if cfg.Kafka.Brokers != "" {
		consumer := queue.NewConsumer(&cfg.Kafka, pipeline, logger)
		go consumer.Start(context.Background())
	} else {
		logger.Warn("Kafka consumer disabled (missing brokers config)")
	}

	r := router.Setup(handler.NewLibraryHandler(library), handler.NewPipelineHandler(pipeline), handler.NewHealthHandler(repo), cfg.Auth.JWTSecret)
	logger.Infof("server listening on %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
