package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppPort int

	StorageDriver string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	TelegramBotToken string
	AdminBotToken    string

	// Demo admin credential pair. Login with it bypasses the account list.
	AdminEmail    string
	AdminPassword string

	GenAIAPIKey  string
	GenAIModel   string
	GenAIBaseURL string
	MapsAPIKey   string

	GoogleCalendarID       string
	GoogleCredentialsFile  string
	GoogleAccessToken      string
	GoogleCalendarTimeZone string

	SeedMockData      bool
	AllowCancelBooked bool
	DefaultCurrency   string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "rideshare"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))

	cfg.StorageDriver = cast.ToString(getOrReturnDefault("STORAGE_DRIVER", StorageMemory))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "rideshare"))

	cfg.RedisHost = cast.ToString(getOrReturnDefault("REDIS_HOST", "localhost"))
	cfg.RedisPort = cast.ToString(getOrReturnDefault("REDIS_PORT", "6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))
	cfg.RedisKeyPrefix = cast.ToString(getOrReturnDefault("REDIS_KEY_PREFIX", ""))

	cfg.TelegramBotToken = cast.ToString(getOrReturnDefault("TG_BOT_TOKEN", ""))
	cfg.AdminBotToken = cast.ToString(getOrReturnDefault("ADMIN_BOT_TOKEN", ""))

	cfg.AdminEmail = cast.ToString(getOrReturnDefault("ADMIN_EMAIL", "admin@rideshare.local"))
	cfg.AdminPassword = cast.ToString(getOrReturnDefault("ADMIN_PASSWORD", "admin"))

	cfg.GenAIAPIKey = cast.ToString(getOrReturnDefault("GENAI_API_KEY", ""))
	cfg.GenAIModel = cast.ToString(getOrReturnDefault("GENAI_MODEL", "gemini-2.5-flash"))
	cfg.GenAIBaseURL = cast.ToString(getOrReturnDefault("GENAI_BASE_URL", ""))
	cfg.MapsAPIKey = cast.ToString(getOrReturnDefault("MAPS_API_KEY", ""))

	cfg.GoogleCalendarID = cast.ToString(getOrReturnDefault("GOOGLE_CALENDAR_ID", ""))
	cfg.GoogleCredentialsFile = cast.ToString(getOrReturnDefault("GOOGLE_CREDENTIALS_FILE", ""))
	cfg.GoogleAccessToken = cast.ToString(getOrReturnDefault("GOOGLE_ACCESS_TOKEN", ""))
	cfg.GoogleCalendarTimeZone = cast.ToString(getOrReturnDefault("GOOGLE_CALENDAR_TZ", "UTC"))

	cfg.SeedMockData = cast.ToBool(getOrReturnDefault("SEED_MOCK_DATA", true))
	cfg.AllowCancelBooked = cast.ToBool(getOrReturnDefault("ALLOW_CANCEL_BOOKED", false))
	cfg.DefaultCurrency = cast.ToString(getOrReturnDefault("DEFAULT_CURRENCY", "USD"))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
