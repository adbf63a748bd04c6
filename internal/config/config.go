package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"shared-ledger-go/pkg/logger"
)

type Config struct {
	HTTP     HTTPConfig
	Env      string
	Ledger   LedgerConfig
	DB       DBConfig
	Supabase SupabaseConfig
}

type HTTPConfig struct {
	Port           string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

type LedgerConfig struct {
	ServiceStartDate   time.Time
	RecurringBatchSize int
	InvitationTTL      time.Duration
	MembersCacheTTL    time.Duration
	RatesFutureTTL     time.Duration
	RankingLookback    int
	RankingCacheTTL    time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	AuthTimeout    time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
}

var defaultServiceStartDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	startDate, err := getEnvDate("SERVICE_START_DATE", defaultServiceStartDate)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Env: getEnv("ENV", "development"),
		HTTP: HTTPConfig{
			Port:           getEnv("HTTP_PORT", "8080"),
			RequestTimeout: getEnvDuration("HTTP_REQUEST_TIMEOUT", 60*time.Second),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Ledger: LedgerConfig{
			ServiceStartDate:   startDate,
			RecurringBatchSize: getEnvInt("RECURRING_BATCH_SIZE", 200),
			InvitationTTL:      getEnvDuration("INVITATION_TTL", 7*24*time.Hour),
			MembersCacheTTL:    getEnvDuration("MEMBERS_CACHE_TTL", time.Minute),
			RatesFutureTTL:     getEnvDuration("RATES_FUTURE_TTL", time.Hour),
			RankingLookback:    getEnvInt("CATEGORY_RANKING_LOOKBACK_DAYS", 90),
			RankingCacheTTL:    getEnvDuration("CATEGORY_RANKING_CACHE_TTL", time.Minute),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "shared_ledger"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			PublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
			AuthTimeout:    getEnvDuration("SUPABASE_AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "dev-user-1"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", "dev@example.com"),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// Unlike the other getters a malformed value is reported, not replaced.
func getEnvDate(key string, fallback time.Time) (time.Time, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
