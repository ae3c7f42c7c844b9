package main

import (
	"context"
	"log"
	"time"

	"innovision/cache"
	configs "innovision/config"
	"innovision/handler"
	zap_betterstack "innovision/logger"
	"innovision/mongoconn"
	"innovision/natsclient"
	"innovision/repository"
	"innovision/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configValues := configs.LoadConfig()

	logStreamer, err := zap_betterstack.NewBetterStackLogStreamer("gamification-service", configValues.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logStreamer.Sync()

	mongoclientInstance := mongoconn.ConnectDB(configValues.MongoDBURL)

	repoInstance := repository.NewRepository(mongoclientInstance)

	redisCache := cache.NewRedisCache(configValues.RedisURL, "", 0)
	leaderboard := cache.NewLeaderboard(redisCache.Client())

	natsClient, err := natsclient.NewNatsClient(configValues.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsClient.Close()

	serviceInstance := service.NewService(repoInstance, natsClient, redisCache, leaderboard, logStreamer)

	// Seed the Redis leaderboard before serving; the cron keeps it fresh.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := serviceInstance.SyncLeaderboardFromMongo(ctx); err != nil {
		log.Printf("Initial leaderboard sync failed: %v", err)
	}
	cancel()
	serviceInstance.StartCronJob()

	if configValues.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	gamificationHandler := handler.NewGamificationHandler(serviceInstance)
	gamificationHandler.RegisterRoutes(router)

	log.Printf("GamificationService HTTP server running on port %s", configValues.HTTPPort)
	if err := router.Run(":" + configValues.HTTPPort); err != nil {
		log.Fatalf("Failed to serve HTTP server: %v", err)
	}
}
