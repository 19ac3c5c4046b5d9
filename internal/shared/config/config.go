package config

import (
	"errors"
	"io/fs"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	SSEKMSKeyID        string
	SQSQueueURL        string
	SQSVisibility      int
	WorkerConcurrency  int
	ShutdownTimeout    int
	QuadrantThreshold  float64
	AnalysisLimit      int
	DatabaseURL        string
	Env                string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Defaults applied when neither the environment nor a .env file sets a key.
const (
	DefaultPort              = "8080"
	DefaultQuadrantThreshold = 3.5
	DefaultAnalysisLimit     = 25

	DefaultSQSVisibilitySeconds = 300
	DefaultWorkerConcurrency    = 4
	DefaultShutdownSeconds      = 30
)

// Load reads configuration from environment variables, falling back to a
// local .env file and then to defaults.
func Load() Config {
	return LoadFrom(NewViper(".env"))
}

// NewViper returns a viper instance with the application defaults and
// environment binding. envFile is read when present; a missing file is ignored.
func NewViper(envFile string) *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("SIM_QUADRANT_THRESHOLD", DefaultQuadrantThreshold)
	v.SetDefault("SIM_ANALYSIS_LIMIT", DefaultAnalysisLimit)
	v.SetDefault("SIM_SQS_VISIBILITY_TIMEOUT_SECONDS", DefaultSQSVisibilitySeconds)
	v.SetDefault("SIM_WORKER_CONCURRENCY", DefaultWorkerConcurrency)
	v.SetDefault("SIM_SHUTDOWN_TIMEOUT_SECONDS", DefaultShutdownSeconds)
	for _, key := range []string{
		"DATABASE_URL", "AWS_REGION", "S3_BUCKET", "S3_PREFIX", "SSE_KMS_KEY_ID",
		"SIM_SQS_QUEUE_URL", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"GOOGLE_REDIRECT_URL", "UI_REDIRECT_URL",
	} {
		v.SetDefault(key, "")
	}
	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				log.Printf("config: ignoring %s: %v", envFile, err)
			}
		}
	}
	return v
}

// LoadFrom builds a Config from an already populated viper instance.
func LoadFrom(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := v.GetString("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	// Range checks belong to sim.NewEngine; an unparsable value becomes NaN so
	// the engine rejects it instead of running with a default.
	threshold, err := strconv.ParseFloat(strings.TrimSpace(v.GetString("SIM_QUADRANT_THRESHOLD")), 64)
	if err != nil {
		log.Printf("SIM_QUADRANT_THRESHOLD %q is not a number", v.GetString("SIM_QUADRANT_THRESHOLD"))
		threshold = math.NaN()
	}
	limit := v.GetInt("SIM_ANALYSIS_LIMIT")
	if limit <= 0 {
		limit = DefaultAnalysisLimit
	}

	return Config{
		SQSVisibility:      positiveOr(v.GetInt("SIM_SQS_VISIBILITY_TIMEOUT_SECONDS"), DefaultSQSVisibilitySeconds),
		WorkerConcurrency:  positiveOr(v.GetInt("SIM_WORKER_CONCURRENCY"), DefaultWorkerConcurrency),
		ShutdownTimeout:    positiveOr(v.GetInt("SIM_SHUTDOWN_TIMEOUT_SECONDS"), DefaultShutdownSeconds),
		Port:               v.GetString("PORT"),
		CORSAllowOrigin:    splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		ObjectStoreType:    normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:      v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		SSEKMSKeyID:        v.GetString("SSE_KMS_KEY_ID"),
		SQSQueueURL:        strings.TrimSpace(v.GetString("SIM_SQS_QUEUE_URL")),
		QuadrantThreshold:  threshold,
		AnalysisLimit:      limit,
		DatabaseURL:        dbURL,
		Env:                env,
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		UIRedirectURL:      v.GetString("UI_REDIRECT_URL"),
	}
}

// IsDevLike reports whether the environment may fall back to in-memory storage.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func positiveOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
