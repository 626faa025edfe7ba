package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, sourced from the environment. All
// secrets live only in env vars; nothing here carries a baked-in credential.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin string

	DatabaseURL string
	JWTSecret   string

	// BlobStoreType selects the object storage backend: supabase, s3 or local.
	BlobStoreType string
	LocalStoreDir string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	AWSRegion string
	S3Bucket  string
	S3Prefix  string

	RazorpayKeyID     string
	RazorpayKeySecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPTimeout  time.Duration

	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string

	MaxUploadBytes int64
}

// Load reads .env files when present, then resolves the configuration from
// the environment.
func Load() Config {
	_ = godotenv.Load(".env", "cmd/.env")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             normalizeEnv(getEnv("APP_ENV", "dev")),
		CORSAllowOrigin: getEnv("CORS_ALLOW_ORIGIN", "*"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		BlobStoreType: normalizeStoreType(getEnv("BLOB_STORE", "local")),
		LocalStoreDir: getEnv("LOCAL_STORE_DIR", "./data/blobs"),

		SupabaseURL:    strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey:    os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "documents"),

		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:  os.Getenv("S3_BUCKET"),
		S3Prefix:  os.Getenv("S3_PREFIX"),

		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPTimeout:  time.Duration(getEnvInt("SMTP_TIMEOUT_SECONDS", 15)) * time.Second,

		LLMProvider:  getEnv("LLM_PROVIDER", "openai"),
		LLMModel:     getEnv("LLM_MODEL", "gpt-4o-mini"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 20<<20),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return "prod"
	case "staging":
		return "staging"
	default:
		return "dev"
	}
}

func normalizeStoreType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "supabase":
		return "supabase"
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
