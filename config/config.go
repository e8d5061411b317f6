package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Storage  StorageConfig
	S3       S3Config
	Menu     MenuConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	LogLevel    string
	LogFormat   string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
	Seed         bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

// StorageConfig selects where uploaded menu images live.
type StorageConfig struct {
	Driver     string // local, s3
	UploadDir  string
	PublicPath string // URL prefix the local upload dir is served under
	MaxBytes   int64
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
	Prefix          string
}

// MenuConfig names the tags and category that drive the menu sections.
type MenuConfig struct {
	LimitedTag   string
	NormalTag    string
	SideCategory string
	Timezone     string
	WindowCron   string
}

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
			LogFormat:   getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "menu"),
			Password:     getEnv("DB_PASSWORD", "menu"),
			DBName:       getEnv("DB_NAME", "menu"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxIdleConns: parseInt(getEnv("DB_MAX_IDLE_CONNS", "10"), 10),
			MaxOpenConns: parseInt(getEnv("DB_MAX_OPEN_CONNS", "50"), 50),
			Seed:         parseBool(getEnv("DB_SEED", "true")),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverLocal)),
			UploadDir:  getEnv("UPLOAD_DIR", "./storage/images"),
			PublicPath: getEnv("UPLOAD_PUBLIC_PATH", "/images"),
			MaxBytes:   int64(parseInt(getEnv("UPLOAD_MAX_BYTES", "10485760"), 10<<20)),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
			Prefix:          getEnv("AWS_S3_PREFIX", "menu"),
		},
		Menu: MenuConfig{
			LimitedTag:   getEnv("MENU_LIMITED_TAG", "限定メニュー"),
			NormalTag:    getEnv("MENU_NORMAL_TAG", "通常メニュー"),
			SideCategory: getEnv("MENU_SIDE_CATEGORY", "サイドメニュー"),
			Timezone:     getEnv("MENU_TIMEZONE", "Asia/Tokyo"),
			WindowCron:   getEnv("MENU_WINDOW_CRON", "*/5 * * * *"),
		},
	}

	if config.Storage.Driver != StorageDriverLocal && config.Storage.Driver != StorageDriverS3 {
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", config.Storage.Driver)
	}
	if config.Storage.Driver == StorageDriverS3 && config.S3.Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required when STORAGE_DRIVER=s3")
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Location resolves the menu timezone, falling back to UTC.
func (c *MenuConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Invalid timezone %s, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
