package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	URL      string
	MaxConns int
}

type RedisConfig struct {
	Addr     string // пусто - кэш витрины отключен
	Password string
	DB       int
	TTL      time.Duration
}

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type JWTConfig struct {
	SigningKey string
	TTL        time.Duration
}

type GeocoderConfig struct {
	Provider      string // nominatim | google
	NominatimURL  string
	UserAgent     string
	GoogleMapsKey string
}

type OpenAIConfig struct {
	APIKey string // пусто - консультант отвечает заготовками
	Model  string
}

type HomepageConfig struct {
	RandomShuffle bool
	RollupCron    string
}

type AdminBootstrapConfig struct {
	Email    string
	Password string
	Name     string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName        string
	Port           string
	AllowedOrigins []string

	Database     DBConfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	JWT          JWTConfig
	Geocoder     GeocoderConfig
	OpenAI       OpenAIConfig
	Homepage     HomepageConfig
	Admin        AdminBootstrapConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig читает .env (если есть), затем переменные окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Println("Info: no .env file found, using environment variables")
	}

	cfg := &AppConfig{
		AppName:        getEnvAsString("APP_NAME", "showcase-service"),
		Port:           getEnvAsString("PORT", "8080"),
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)

	cfg.Redis = RedisConfig{
		Addr:     getEnvAsString("REDIS_ADDR", ""),
		Password: getEnvAsString("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
		TTL:      getEnvAsDuration("HOMEPAGE_CACHE_TTL", 5*time.Minute),
	}

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.JWT.SigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.JWT.SigningKey == "" {
		return nil, fmt.Errorf("JWT_SIGNING_KEY environment variable is required")
	}
	cfg.JWT.TTL = getEnvAsDuration("JWT_TTL", 12*time.Hour)

	cfg.Geocoder = GeocoderConfig{
		Provider:      strings.ToLower(getEnvAsString("GEOCODER_PROVIDER", "nominatim")),
		NominatimURL:  getEnvAsString("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		UserAgent:     getEnvAsString("GEOCODER_USER_AGENT", "showcase-service/1.0"),
		GoogleMapsKey: getEnvAsString("GOOGLE_MAPS_API_KEY", ""),
	}
	switch cfg.Geocoder.Provider {
	case "nominatim":
	case "google":
		if cfg.Geocoder.GoogleMapsKey == "" {
			return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY environment variable is required for GEOCODER_PROVIDER=google")
		}
	default:
		return nil, fmt.Errorf("unknown GEOCODER_PROVIDER %q", cfg.Geocoder.Provider)
	}

	cfg.OpenAI = OpenAIConfig{
		APIKey: getEnvAsString("OPENAI_API_KEY", ""),
		Model:  getEnvAsString("OPENAI_MODEL", "gpt-4o-mini"),
	}

	cfg.Homepage = HomepageConfig{
		RandomShuffle: getEnvAsBool("HOMEPAGE_RANDOM_SHUFFLE", false),
		RollupCron:    getEnvAsString("VIEWS_ROLLUP_CRON", "5 0 * * *"),
	}

	cfg.Admin = AdminBootstrapConfig{
		Email:    getEnvAsString("ADMIN_EMAIL", ""),
		Password: getEnvAsString("ADMIN_PASSWORD", ""),
		Name:     getEnvAsString("ADMIN_NAME", "Administrator"),
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int.
// Если значение не парсится, пишет предупреждение и возвращает значение по умолчанию.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsSlice - значения через запятую
func getEnvAsSlice(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
