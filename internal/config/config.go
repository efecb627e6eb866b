package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                string
	MongoURI            string
	MongoDatabase       string
	PingCollection      string
	UserCollection      string
	SurveyCollection    string
	QuestionCollection  string
	ResponseCollection  string
	Timeout             time.Duration
	Timezone            string
	ServerLog           *log.Logger
	JWTConfigs          []JWTConfig
	JWTAudience         string
	AllowedOrigins      []string
	CleanupStageTimeout time.Duration
	StaleDaysDefault    int
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	cleanupStageTimeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CLEANUP_STAGE_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			cleanupStageTimeout = parsed
		}
	}

	staleDays := 30
	if raw := strings.TrimSpace(os.Getenv("STALE_DAYS_DEFAULT")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			staleDays = parsed
		}
	}

	allowedOrigins := parseList("API_ALLOWED_ORIGINS", []string{"*"})

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_ADMIN_JWT_ISSUER", "survey-club-auth"),
			Secret: []byte(secret),
		})
	}
	if secret := strings.TrimSpace(os.Getenv("AUTH_OPERATOR_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_OPERATOR_JWT_ISSUER", "auth-operator"),
			Secret: []byte(secret),
		})
	}

	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secrets not configured. Set AUTH_ADMIN_JWT_SECRET or AUTH_OPERATOR_JWT_SECRET.")
	}

	jwtAudience := strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE"))

	cfg := Config{
		Addr:                envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:            envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:       envOrDefault("MONGO_DB", "survey-club"),
		PingCollection:      envOrDefault("PING_COLLECTION", "pings"),
		UserCollection:      envOrDefault("USER_COLLECTION", "users"),
		SurveyCollection:    envOrDefault("SURVEY_COLLECTION", "surveys"),
		QuestionCollection:  envOrDefault("QUESTION_COLLECTION", "questions"),
		ResponseCollection:  envOrDefault("RESPONSE_COLLECTION", "responses"),
		Timeout:             timeout,
		Timezone:            envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:           log.New(os.Stdout, "[survey-club-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:          jwtConfigs,
		JWTAudience:         jwtAudience,
		AllowedOrigins:      allowedOrigins,
		CleanupStageTimeout: cleanupStageTimeout,
		StaleDaysDefault:    staleDays,
	}

	cfg.ServerLog.Printf("loaded config: addr=%q db=%q staleDaysDefault=%d cleanupStageTimeout=%s",
		cfg.Addr, cfg.MongoDatabase, cfg.StaleDaysDefault, cfg.CleanupStageTimeout)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
