package util

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var loadEnvOnce sync.Once

type Config struct {
	Port               string
	GinMode            string
	DatabaseURL        string
	DBName             string
	RedisURL           string
	UploadDir          string
	MaxUploadSize      int64
	RateLimitPerSecond int
	SessionTTL         time.Duration
	CORSOrigins        []string
	Admin              AdminConfig
	Logger             LoggerConfig
	Cloudinary         CloudinaryConfig
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// AdminConfig seeds the first super admin on startup when Email is set.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
}

// LoadEnvFor returns the value of an environment variable, reading .env once.
func LoadEnvFor(v string) string {
	loadEnvOnce.Do(func() {
		envFile := os.Getenv("ENV_FILE")
		if envFile == "" {
			envFile = ".env"
		}
		if err := godotenv.Load(envFile); err != nil {
			LogInfo("no .env file found, using environment variables")
		}
	})
	return os.Getenv(v)
}

func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "8080"),
		GinMode:            getEnv("GIN_MODE", "debug"),
		DatabaseURL:        getEnv("DATABASE_URL", "mongodb://localhost:27017"),
		DBName:             getEnv("DB_NAME", "exportexpress"),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379/0"),
		UploadDir:          getEnv("UPLOAD_DIR", os.TempDir()),
		MaxUploadSize:      int64(getEnvInt("MAX_UPLOAD_SIZE", 5<<20)),
		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 10),
		SessionTTL:         getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		CORSOrigins:        getEnvList("CORS_ORIGINS", []string{"*"}),
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "json"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Cloudinary: CloudinaryConfig{
			CloudName:    getEnv("CLOUDINARY_CLOUDNAME", ""),
			APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
			UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "exportexpress"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := LoadEnvFor(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if i, err := strconv.Atoi(LoadEnvFor(key)); err == nil {
		return i
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(LoadEnvFor(key)); err == nil {
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(LoadEnvFor(key))); err == nil {
		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	var out []string
	for _, item := range strings.Split(LoadEnvFor(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// ConnectDB opens a Mongo client and pings the primary.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	LogInfo("starting MongoDB connection..")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}

	LogInfo("MongoDB connection successful")
	return client, nil
}

// ConnectRedis parses a redis:// URL and verifies the connection.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}

	LogInfo("redis connection successful", zap.String("addr", opts.Addr))
	return client, nil
}
