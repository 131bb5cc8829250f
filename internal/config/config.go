// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Insights InsightsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// DataConfig points at the forecast pipeline's output files. All weekly
// dates in those files are Sunday week-ends (Monday-Sunday weeks).
type DataConfig struct {
	Dir             string
	WeeklyFile      string
	DailyFile       string
	PredictionsFile string
	ExportDir       string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// StorageConfig configures the optional object-store source for the
// dataset files. When the endpoint is empty the loader reads local disk.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type InsightsConfig struct {
	GeminiAPIKey string
	Model        string
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
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DATA_DIR", "./data")
		viper.SetDefault("DATA_WEEKLY_FILE", "training_data_weekly.csv")
		viper.SetDefault("DATA_DAILY_FILE", "training_data_daily.csv")
		viper.SetDefault("DATA_PREDICTIONS_FILE", "merged_predictions.csv")
		viper.SetDefault("DATA_EXPORT_DIR", "./data/exports")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 300)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "demand-analytics")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("GEMINI_API_KEY", "")
		viper.SetDefault("GEMINI_MODEL", "gemini-1.5-pro-latest")

		viper.AutomaticEnv()

		ensureDir(viper.GetString("DATA_DIR"))
		ensureDir(viper.GetString("DATA_EXPORT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Data: DataConfig{
				Dir:             viper.GetString("DATA_DIR"),
				WeeklyFile:      viper.GetString("DATA_WEEKLY_FILE"),
				DailyFile:       viper.GetString("DATA_DAILY_FILE"),
				PredictionsFile: viper.GetString("DATA_PREDICTIONS_FILE"),
				ExportDir:       viper.GetString("DATA_EXPORT_DIR"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Insights: InsightsConfig{
				GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
				Model:        viper.GetString("GEMINI_MODEL"),
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
