package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort    string
	AppEnv     string
	AppOrigin  string // origin of the web app; root and topic routes resolve against it
	AppVersion string // build version; asset cache entries of other versions are purged on activate
	AppLang    string

	NotifyIcon  string
	NotifyBadge string
	MaxShown    int // shown notifications kept in the surface registry

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	AssetCacheBucket string
	AssetCachePrefix string

	SNSRegion            string
	SNSBroadcastTopicARN string // optional; mirrors sound broadcasts to other worker instances

	RelayJWTPublicKeyPath  string
	RelayJWTPrivateKeyPath string // only needed by tooling that mints relay tokens
	RelayJWTExpiry         time.Duration

	ActionTimeout  time.Duration
	TrustProxy     bool // honour X-Forwarded-For / X-Real-IP; only behind a proxy that sets them
	PushRateLimit  int
	PushRateBurst  int
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Subscriptions string
	Notifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:    getEnv("APP_PORT", "3000"),
		AppEnv:     getEnv("APP_ENV", "development"),
		AppOrigin:  strings.TrimSuffix(getEnv("APP_ORIGIN", "http://localhost:3000"), "/"),
		AppVersion: getEnv("APP_VERSION", "dev"),
		AppLang:    getEnv("APP_LANG", "en"),

		NotifyIcon:  getEnv("NOTIFY_ICON", "/static/images/ntfy.png"),
		NotifyBadge: getEnv("NOTIFY_BADGE", "/static/images/mask-icon.svg"),
		MaxShown:    getEnvInt("MAX_SHOWN_NOTIFICATIONS", 500),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Subscriptions: getEnv("DYNAMO_TABLE_SUBSCRIPTIONS", "subscriptions"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
		},

		AssetCacheBucket: getEnv("ASSET_CACHE_BUCKET", ""),
		AssetCachePrefix: getEnv("ASSET_CACHE_PREFIX", "precache"),

		SNSRegion:            getEnv("SNS_REGION", "us-east-1"),
		SNSBroadcastTopicARN: getEnv("SNS_BROADCAST_TOPIC_ARN", ""),

		RelayJWTPublicKeyPath:  getEnv("RELAY_JWT_PUBLIC_KEY_PATH", ""),
		RelayJWTPrivateKeyPath: getEnv("RELAY_JWT_PRIVATE_KEY_PATH", ""),
		RelayJWTExpiry:         time.Duration(getEnvInt("RELAY_JWT_EXPIRY_MINUTES", 60)) * time.Minute,

		ActionTimeout:  time.Duration(getEnvInt("ACTION_TIMEOUT_SECONDS", 30)) * time.Second,
		TrustProxy:     getEnvBool("TRUST_PROXY", false),
		PushRateLimit:  getEnvInt("PUSH_RATE_LIMIT", 50),
		PushRateBurst:  getEnvInt("PUSH_RATE_BURST", 100),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
