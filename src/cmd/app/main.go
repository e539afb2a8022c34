package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-service/src/internal/config"
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

func main() {

	viperConfig := config.NewViper()
	log.InitLogger(viperConfig)
	config.NewKafkaConfig(viperConfig)
	logger := log.GetLogger()
	if err := config.LoadRedisConfig(viperConfig); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to connect redis: %v", err), "redis", "")
	}
	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis()
	producer := config.NewKafkaProducer(viperConfig, logger)
	validate := config.NewValidator(viperConfig)
	asynqClient := config.NewAsynqClient(viperConfig)
	asynqServer := config.NewAsynqServer(viperConfig)
	mux := asynq.NewServeMux()
	app := config.NewFiber(viperConfig)
	app.Use(middleware.NewLogger(logger))
	err := config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		App:         app,
		Log:         logger,
		Validate:    validate,
		Config:      viperConfig,
		Producer:    producer,
		Redis:       redisClient,
		AsynqClient: asynqClient,
		Async:       mux,
	})
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to bootstrap: %v", err), "main", "")
		os.Exit(1)
	}

	if asynqServer != nil {
		if err := asynqServer.Start(mux); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start worker: %v", err), "asynq", "")
		}
	}
	scheduler, err := config.NewAsynqScheduler(viperConfig, logger)
	if err != nil {
		logger.Error("main", fmt.Sprintf("Failed to create scheduler: %v", err), "asynq", "")
	}
	if scheduler != nil {
		if err := scheduler.Start(); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start scheduler: %v", err), "asynq", "")
		}
	}

	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("main", "Server wallet-service is shutting down...", "graceful", "")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
		}
		if scheduler != nil {
			scheduler.Shutdown()
		}
		if asynqServer != nil {
			asynqServer.Shutdown()
		}
		if asynqClient != nil {
			_ = asynqClient.Close()
		}
		if err := producer.Close(); err != nil {
			logger.Error("main", fmt.Sprintf("Error closing producer: %v", err), "graceful", "")
		}
		if err := db.Close(); err != nil {
			logger.Error("main", fmt.Sprintf("Error closing database: %v", err), "graceful", "")
		}
		close(done)
	}()

	webPort := viperConfig.GetInt("web.port")
	if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
		logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
		quit <- os.Interrupt
	}

	<-done
	logger.Info("main", fmt.Sprintf("Server %s stopped", viperConfig.GetString("app.name")), "graceful", "")
}
