package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Simulation SimulationConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type StoreConfig struct {
	Backend string // "memory" or "redis"
	Redis   RedisConfig
}

type RedisConfig struct {
	Host       string
	Port       int
	Password   string
	DB         int
	TTLMinutes int
}

// SimulationConfig pins the figures the core simulates instead of
// computing: browse-phase confidence, the session-level scores, and the
// seed for question template selection.
type SimulationConfig struct {
	BrowseConfidence         float64
	RecommendationConfidence float64
	EngagementScore          float64
	ConversionProbability    float64
	QuestionSeed             int64
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/mapr-agent")

	viper.SetEnvPrefix("MAPR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("store.backend", "memory")
	viper.SetDefault("store.redis.host", "localhost")
	viper.SetDefault("store.redis.port", 6379)
	viper.SetDefault("store.redis.db", 0)
	viper.SetDefault("store.redis.ttlMinutes", 0)

	viper.SetDefault("simulation.browseConfidence", 0.85)
	viper.SetDefault("simulation.recommendationConfidence", 0.88)
	viper.SetDefault("simulation.engagementScore", 85)
	viper.SetDefault("simulation.conversionProbability", 0.73)
	viper.SetDefault("simulation.questionSeed", 42)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
