package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	App     AppConfig
	Cache   CacheConfig
	Archive ArchiveConfig
	AI      AIConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	// MaxUploadBytes bounds request size; model fitting is CPU-bound with
	// no internal timeout, so input size is limited at the boundary.
	MaxUploadBytes  int64
	ForecastHorizon int
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	KPITTLSeconds int
}

type ArchiveConfig struct {
	Enabled    bool
	Dir        string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

type AIConfig struct {
	GeminiAPIKey string
	GeminiModel  string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_MAX_UPLOAD_BYTES", int64(16*1024*1024))
		viper.SetDefault("APP_FORECAST_HORIZON", 30)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_KPI_TTL_SECONDS", 60)
		viper.SetDefault("ARCHIVE_ENABLED", true)
		viper.SetDefault("ARCHIVE_DIR", "./data/uploads")
		viper.SetDefault("ARCHIVE_S3_BUCKET", "")
		viper.SetDefault("ARCHIVE_S3_REGION", "")
		viper.SetDefault("ARCHIVE_S3_ENDPOINT", "")
		viper.SetDefault("GEMINI_API_KEY", "")
		viper.SetDefault("GEMINI_MODEL", "gemini-1.5-pro-latest")

		viper.AutomaticEnv()

		if viper.GetBool("ARCHIVE_ENABLED") && viper.GetString("ARCHIVE_S3_BUCKET") == "" {
			ensureDir(viper.GetString("ARCHIVE_DIR"))
		}

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			App: AppConfig{
				MaxUploadBytes:  viper.GetInt64("APP_MAX_UPLOAD_BYTES"),
				ForecastHorizon: viper.GetInt("APP_FORECAST_HORIZON"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				KPITTLSeconds: viper.GetInt("CACHE_KPI_TTL_SECONDS"),
			},
			Archive: ArchiveConfig{
				Enabled:    viper.GetBool("ARCHIVE_ENABLED"),
				Dir:        viper.GetString("ARCHIVE_DIR"),
				S3Bucket:   viper.GetString("ARCHIVE_S3_BUCKET"),
				S3Region:   viper.GetString("ARCHIVE_S3_REGION"),
				S3Endpoint: viper.GetString("ARCHIVE_S3_ENDPOINT"),
			},
			AI: AIConfig{
				GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
				GeminiModel:  viper.GetString("GEMINI_MODEL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
