package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Gateway  GatewayConfig
	Capture  CaptureConfig
	Exports  ExportsConfig
	Cache    CacheConfig
	Audit    AuditConfig
	Accounts []LocalAccount
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GatewayConfig points at the external backend that owns classes, groups,
// students and attendance.
type GatewayConfig struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	PushMutations bool
	SyncInterval  time.Duration
	TeacherID     string
	GroupID       string
	AcademicYear  string
	PushWorkers   int
	PushRetries   int
}

// CaptureConfig tunes the camera snapshot workflow.
type CaptureConfig struct {
	SnapshotURL  string
	FrameTimeout time.Duration
	JPEGQuality  int
	MaxUpload    int64
}

// ExportsConfig controls rendered attendance reports.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
}

// CacheConfig toggles Redis caching of gateway reads.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// AuditConfig toggles the Postgres audit trail.
type AuditConfig struct {
	Enabled bool
}

// LocalAccount is a fallback login used when no gateway is configured.
// Entries come from LOCAL_ACCOUNTS as email|role|name|bcrypt-hash|teacher-id.
type LocalAccount struct {
	Email        string
	Role         string
	Name         string
	PasswordHash string
	TeacherID    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Gateway = GatewayConfig{
		BaseURL:       strings.TrimRight(v.GetString("GATEWAY_BASE_URL"), "/"),
		Token:         v.GetString("GATEWAY_TOKEN"),
		Timeout:       parseDuration(v.GetString("GATEWAY_TIMEOUT"), 10*time.Second),
		PushMutations: v.GetBool("GATEWAY_PUSH_MUTATIONS"),
		SyncInterval:  parseDuration(v.GetString("GATEWAY_SYNC_INTERVAL"), 0),
		TeacherID:     v.GetString("GATEWAY_TEACHER_ID"),
		GroupID:       v.GetString("GATEWAY_GROUP_ID"),
		AcademicYear:  v.GetString("GATEWAY_ACADEMIC_YEAR_ID"),
		PushWorkers:   v.GetInt("GATEWAY_PUSH_WORKERS"),
		PushRetries:   v.GetInt("GATEWAY_PUSH_RETRIES"),
	}

	quality := v.GetInt("CAPTURE_JPEG_QUALITY")
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	maxUpload := v.GetInt64("CAPTURE_MAX_UPLOAD")
	if maxUpload <= 0 {
		maxUpload = 8 * 1024 * 1024
	}
	cfg.Capture = CaptureConfig{
		SnapshotURL:  v.GetString("CAPTURE_SNAPSHOT_URL"),
		FrameTimeout: parseDuration(v.GetString("CAPTURE_FRAME_TIMEOUT"), 5*time.Second),
		JPEGQuality:  quality,
		MaxUpload:    maxUpload,
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), 30*time.Minute),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 2*time.Minute),
	}

	cfg.Audit = AuditConfig{Enabled: v.GetBool("AUDIT_ENABLED")}

	accounts, err := parseAccounts(v.GetString("LOCAL_ACCOUNTS"))
	if err != nil {
		return nil, err
	}
	cfg.Accounts = accounts

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "classroll")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "classroll-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GATEWAY_BASE_URL", "")
	v.SetDefault("GATEWAY_TOKEN", "")
	v.SetDefault("GATEWAY_TIMEOUT", "10s")
	v.SetDefault("GATEWAY_PUSH_MUTATIONS", false)
	v.SetDefault("GATEWAY_SYNC_INTERVAL", "")
	v.SetDefault("GATEWAY_TEACHER_ID", "")
	v.SetDefault("GATEWAY_GROUP_ID", "")
	v.SetDefault("GATEWAY_ACADEMIC_YEAR_ID", "")
	v.SetDefault("GATEWAY_PUSH_WORKERS", 1)
	v.SetDefault("GATEWAY_PUSH_RETRIES", 3)

	v.SetDefault("CAPTURE_SNAPSHOT_URL", "")
	v.SetDefault("CAPTURE_FRAME_TIMEOUT", "5s")
	v.SetDefault("CAPTURE_JPEG_QUALITY", 90)
	v.SetDefault("CAPTURE_MAX_UPLOAD", 8*1024*1024)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "30m")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_TTL", "2m")
	v.SetDefault("AUDIT_ENABLED", false)
	v.SetDefault("LOCAL_ACCOUNTS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func parseAccounts(raw string) ([]LocalAccount, error) {
	entries := strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '\n' })
	accounts := make([]LocalAccount, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		if len(parts) < 4 || len(parts) > 5 {
			return nil, errors.New("LOCAL_ACCOUNTS entries must be email|role|name|hash[|teacher_id]")
		}
		account := LocalAccount{
			Email:        strings.ToLower(strings.TrimSpace(parts[0])),
			Role:         strings.ToLower(strings.TrimSpace(parts[1])),
			Name:         strings.TrimSpace(parts[2]),
			PasswordHash: strings.TrimSpace(parts[3]),
		}
		if len(parts) == 5 {
			account.TeacherID = strings.TrimSpace(parts[4])
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
