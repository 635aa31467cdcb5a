package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	RedisURL     string   // optional; enables the distributed operation lock
	KafkaBrokers []string // optional; enables the Kafka event sink
	KafkaTopic   string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	var brokers []string
	if raw := viper.GetString("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	topic := viper.GetString("KAFKA_TOPIC")
	if topic == "" {
		topic = "ledger-events"
	}

	return &Config{
		Env:          env,
		Port:         port,
		DatabaseURL:  dbURL,
		RedisURL:     viper.GetString("REDIS_URL"),
		KafkaBrokers: brokers,
		KafkaTopic:   topic,
	}, nil
}
