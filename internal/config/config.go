// 클라이언트/개발용 게이트웨이 설정 로딩
//
// 환경변수 (.env 파일이 있으면 먼저 로드):
//   - PHAZEL_API_URL: 인증 게이트웨이 base URL (default: http://localhost:8080/api)
//   - PHAZEL_API_TIMEOUT: 요청 타임아웃 (default: 10s)
//   - PHAZEL_LOCALE: 에러 메시지 언어 en|vi (default: en)
//   - PHAZEL_OTP_TTL: OTP 유효 시간 카운트다운 (default: 5m)
//   - LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT
//   - GATEWAY_*, JWT_*, OTP_TTL, REDIS_*, RATE_LIMIT_*, DATABASE_URL / PG*

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API     APIConfig
	Log     LogConfig
	OTP     OTPConfig
	Gateway GatewayConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	Locale  string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type OTPConfig struct {
	TTL time.Duration
}

type GatewayConfig struct {
	Addr      string
	Auth      AuthConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Postgres  PostgresConfig
}

type AuthConfig struct {
	JWTSecret     string
	JWTAccessTTL  string
	JWTRefreshTTL string
	OTPTTL        string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Count  int64
	Period time.Duration
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second
	DefaultLocale  = "en"
	DefaultOTPTTL  = 5 * time.Minute
)

// .env 로드 후 환경변수에서 Config 생성
func Load() (Config, error) {
	// .env는 선택 사항
	_ = godotenv.Load()

	timeout, err := parseDuration("PHAZEL_API_TIMEOUT", DefaultTimeout)
	if err != nil {
		return Config{}, err
	}
	otpTTL, err := parseDuration("PHAZEL_OTP_TTL", DefaultOTPTTL)
	if err != nil {
		return Config{}, err
	}
	ratePeriod, err := parseDuration("RATE_LIMIT_PERIOD", 180*time.Second)
	if err != nil {
		return Config{}, err
	}
	rateCount, err := parseInt("RATE_LIMIT_COUNT", 3)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := parseInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	return Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getenv("PHAZEL_API_URL", DefaultBaseURL), "/"),
			Timeout: timeout,
			Locale:  getenv("PHAZEL_LOCALE", DefaultLocale),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
			Output: getenv("LOG_OUTPUT", "stderr"),
		},
		OTP: OTPConfig{
			TTL: otpTTL,
		},
		Gateway: GatewayConfig{
			Addr: getenv("GATEWAY_ADDR", ":8080"),
			Auth: AuthConfig{
				JWTSecret:     os.Getenv("JWT_SECRET"),
				JWTAccessTTL:  getenv("JWT_ACCESS_TTL", "15m"),
				JWTRefreshTTL: getenv("JWT_REFRESH_TTL", "168h"),
				OTPTTL:        getenv("OTP_TTL", "5m"),
			},
			Redis: RedisConfig{
				Addr:     os.Getenv("REDIS_ADDR"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       int(redisDB),
			},
			RateLimit: RateLimitConfig{
				Count:  rateCount,
				Period: ratePeriod,
			},
			Postgres: PostgresConfig{
				DatabaseURL: os.Getenv("DATABASE_URL"),
				Host:        getenv("PGHOST", "localhost"),
				Port:        getenv("PGPORT", "5432"),
				User:        os.Getenv("PGUSER"),
				Password:    os.Getenv("PGPASSWORD"),
				Database:    os.Getenv("PGDATABASE"),
				SSLMode:     getenv("PGSSLMODE", "disable"),
			},
		},
	}, nil
}

// Postgres 접속 정보가 설정되어 있는지 체크
func (c PostgresConfig) IsConfigured() bool {
	return c.DatabaseURL != "" || (c.User != "" && c.Database != "")
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseInt(key string, fallback int64) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
