package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	FirebaseProject string
	StorageBucket   string

	NaverUserInfoURL  string
	KakaoUserInfoURL  string
	GoogleUserInfoURL string
	AppleJWKSURL      string
	AppleClientID     string

	MaxUploadBytes   int64
	FavorTTL         time.Duration
	FavorSweepPeriod time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),

		NaverUserInfoURL:  getEnv("NAVER_USERINFO_URL", "https://openapi.naver.com/v1/nid/me"),
		KakaoUserInfoURL:  getEnv("KAKAO_USERINFO_URL", "https://kapi.kakao.com/v2/user/me"),
		GoogleUserInfoURL: getEnv("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),
		AppleJWKSURL:      getEnv("APPLE_JWKS_URL", "https://appleid.apple.com/auth/keys"),
		AppleClientID:     getEnv("APPLE_CLIENT_ID", ""),

		MaxUploadBytes:   getEnvAsInt64("MAX_UPLOAD_BYTES", 10*1024*1024),
		FavorTTL:         getEnvAsDuration("FAVOR_TTL", 7*24*time.Hour),
		FavorSweepPeriod: getEnvAsDuration("FAVOR_SWEEP_PERIOD", time.Hour),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
