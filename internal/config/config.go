package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"kameo_report/internal/config/connections/mongo"
	"kameo_report/internal/config/connections/postgres"
	"kameo_report/internal/config/connections/s3"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	LogLevel      string
	SourcePath    string
	OutputDir     string
	OutputFormats []string
	APIToken      string
	ReportPrefix  string

	S3Enabled       bool
	MongoEnabled    bool
	PostgresEnabled bool

	S3Info       s3.ConnectionInfo
	MongoInfo    mongo.ConnectionInfo
	PostgresInfo postgres.ConnectionInfo

	S3       *s3.S3
	Mongo    *mongo.Mongo
	Postgres *postgres.Postgres
}

// Load reads the environment (and an optional .env file) without touching
// any backend.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getenv("SERVER_PORT", "8070"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		SourcePath:    getenv("SOURCE_PATH", "./input/investments.txt"),
		OutputDir:     getenv("OUTPUT_DIR", "."),
		OutputFormats: SplitList(getenv("OUTPUT_FORMATS", "xlsx,csv")),
		APIToken:      getenv("API_TOKEN", ""),
		ReportPrefix:  getenv("S3_REPORT_PREFIX", "reports"),

		S3Enabled:       getbool("S3_ENABLED"),
		MongoEnabled:    getbool("MONGO_ENABLED"),
		PostgresEnabled: getbool("PG_ENABLED"),

		S3Info: s3.ConnectionInfo{
			Endpoint:  getenv("AWS_ENDPOINT", "localhost:9000"),
			AccessKey: getenv("AWS_ACCESS_KEY_ID", "minioadmin"),
			SecretKey: getenv("AWS_SECRET_ACCESS_KEY", "minioadmin"),
			Region:    getenv("AWS_DEFAULT_REGION", "us-east-1"),
			Bucket:    getenv("AWS_BUCKET", "kameo"),
			UseSSL:    getbool("AWS_USE_SSL"),
		},
		MongoInfo: mongo.ConnectionInfo{
			Scheme:     getenv("MONGO_SCHEME", "mongodb"),
			User:       getenv("MONGO_USER", "root"),
			Password:   getenv("MONGO_PASSWORD", "secret"),
			Host:       getenv("MONGO_HOST", "127.0.0.1"),
			Port:       getenv("MONGO_PORT", "27017"),
			DB:         getenv("MONGO_DB", "kameo_report"),
			AuthSource: getenv("MONGO_AUTH_SOURCE", "admin"),
		},
		PostgresInfo: postgres.ConnectionInfo{
			Host:     getenv("PG_HOST", "127.0.0.1"),
			Port:     getenv("PG_PORT", "5432"),
			User:     getenv("PG_USER", "root"),
			Password: getenv("PG_PASSWORD", "hello-world"),
			DB:       getenv("PG_DB", "kameo_report"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
		},
	}
}

// Init loads the configuration and connects every enabled backend.
func Init(ctx context.Context) (*Config, error) {
	c := Load()
	if err := c.Connect(ctx); err != nil {
		c.Close(ctx)
		return nil, err
	}
	return c, nil
}

func (c *Config) Connect(ctx context.Context) error {
	if c.S3Enabled {
		s3c, err := s3.NewConnection(c.S3Info)
		if err != nil {
			return fmt.Errorf("s3 connect: %w", err)
		}
		if err := s3c.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("s3 bucket %q: %w", c.S3Info.Bucket, err)
		}
		c.S3 = s3c
	}

	if c.MongoEnabled {
		mg, err := mongo.NewConnection(ctx, c.MongoInfo)
		if err != nil {
			return fmt.Errorf("mongo connect: %w", err)
		}
		c.Mongo = mg
	}

	if c.PostgresEnabled {
		pg, err := postgres.NewConnection(ctx, c.PostgresInfo)
		if err != nil {
			return fmt.Errorf("postgres connect: %w", err)
		}
		c.Postgres = pg
	}
	return nil
}

// CheckConnections pings every enabled backend.
func (c *Config) CheckConnections(ctx context.Context) error {
	var errs []error

	if c.PostgresEnabled {
		if c.Postgres == nil || c.Postgres.Pool == nil {
			errs = append(errs, errors.New("postgres not initialized"))
		} else if err := c.Postgres.Pool.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres ping failed: %w", err))
		}
	}

	if c.MongoEnabled {
		if c.Mongo == nil || c.Mongo.Client == nil {
			errs = append(errs, errors.New("mongo not initialized"))
		} else if err := c.Mongo.Client.Ping(ctx, nil); err != nil {
			errs = append(errs, fmt.Errorf("mongo ping failed: %w", err))
		}
	}

	if c.S3Enabled {
		if c.S3 == nil || c.S3.Client == nil {
			errs = append(errs, errors.New("s3 not initialized"))
		} else if ok, err := c.S3.Client.BucketExists(ctx, c.S3.Bucket); err != nil {
			errs = append(errs, fmt.Errorf("s3 bucket check failed: %w", err))
		} else if !ok {
			errs = append(errs, fmt.Errorf("s3 bucket %q not found", c.S3.Bucket))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) Close(ctx context.Context) {
	if c.Postgres != nil {
		c.Postgres.Close()
	}
	if c.Mongo != nil {
		_ = c.Mongo.Close(ctx)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// SplitList splits a comma list into lower-cased, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
