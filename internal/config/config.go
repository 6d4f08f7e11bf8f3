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
	Addr               string
	MongoURI           string
	MongoDatabase      string
	MenuCollection     string
	DaySlotCollection  string
	ResponseCollection string
	EmployeeCollection string
	Timeout            time.Duration
	Timezone           string
	ServerLog          *log.Logger
	JWTConfigs         []JWTConfig
	JWTAudience        string
	AllowedOrigins     []string
	// MongoTransactions requires a replica set. Without it menu creation is not atomic.
	MongoTransactions       bool
	EnsureIndexes           bool
	SelectionRequireOffered bool
	SelectionRejectClosed   bool
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "catering-auth"),
			Secret: []byte(secret),
		})
	}
	if len(jwtConfigs) == 0 {
		log.Fatal("JWT secret not configured. Set AUTH_JWT_SECRET.")
	}

	cfg := Config{
		Addr:                    envOrDefault("HTTP_ADDR", ":8080"),
		MongoURI:                envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:           envOrDefault("MONGO_DB", "catering"),
		MenuCollection:          envOrDefault("MENU_COLLECTION", "menus"),
		DaySlotCollection:       envOrDefault("DAY_SLOT_COLLECTION", "menu_day_slots"),
		ResponseCollection:      envOrDefault("RESPONSE_COLLECTION", "menu_responses"),
		EmployeeCollection:      envOrDefault("EMPLOYEE_COLLECTION", "employees"),
		Timeout:                 timeout,
		Timezone:                envOrDefault("TIMEZONE", "America/Santiago"),
		ServerLog:               log.New(os.Stdout, "[catering-api] ", log.LstdFlags|log.Lshortfile),
		JWTConfigs:              jwtConfigs,
		JWTAudience:             strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		AllowedOrigins:          parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		MongoTransactions:       parseBool("MONGO_TRANSACTIONS", false),
		EnsureIndexes:           parseBool("ENSURE_INDEXES", true),
		SelectionRequireOffered: parseBool("SELECTION_REQUIRE_OFFERED", false),
		SelectionRejectClosed:   parseBool("SELECTION_REJECT_CLOSED", false),
	}

	cfg.ServerLog.Printf("loaded config: db=%q timezone=%q transactions=%t requireOffered=%t rejectClosed=%t",
		cfg.MongoDatabase, cfg.Timezone, cfg.MongoTransactions, cfg.SelectionRequireOffered, cfg.SelectionRejectClosed)

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

// parseBool accepts strconv.ParseBool values and falls back on anything else.
func parseBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
