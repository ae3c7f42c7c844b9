package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	MongoDBURL  string
	NATSURL     string
	RedisURL    string
	Environment string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	config := Config{
		HTTPPort:    getEnv("HTTPPORT", "7100"),
		MongoDBURL:  getEnv("MONGODBURL", "mongodb://localhost:27017"),
		NATSURL:     getEnv("NATSURL", "nats://localhost:4222"),
		RedisURL:    getEnv("REDISURL", "localhost:6379"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
	return config
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
