package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort  string
	LogLevel string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Engine economics. Amounts in minor units, rates in basis points.
	MinInvestment  int64
	MaxInvestment  int64
	ProtocolFeeBp  int64
	ReserveRatioBp int64
	PremiumRateBp  int64

	FundingWindowDays    int64
	ActivationWindowDays int64
	GracePeriodDays      int64
	RateUpdateSecs       int64
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint64(k string, d int64) int64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LEDGER_LOG_LEVEL", "info"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "lending"),
		MySQLUser: getenv("MYSQL_USER", "lending"),
		MySQLPass: getenv("MYSQL_PASS", "lending"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		MinInvestment:  getint64("LEDGER_MIN_INVESTMENT", 1_00),
		MaxInvestment:  getint64("LEDGER_MAX_INVESTMENT", 1_000_000_000_00),
		ProtocolFeeBp:  getint64("LEDGER_PROTOCOL_FEE_BP", 100),
		ReserveRatioBp: getint64("LEDGER_RESERVE_RATIO_BP", 5_000),
		PremiumRateBp:  getint64("LEDGER_PREMIUM_RATE_BP", 200),

		FundingWindowDays:    getint64("LEDGER_FUNDING_WINDOW_DAYS", 30),
		ActivationWindowDays: getint64("LEDGER_ACTIVATION_WINDOW_DAYS", 7),
		GracePeriodDays:      getint64("LEDGER_GRACE_PERIOD_DAYS", 30),
		RateUpdateSecs:       getint64("LEDGER_RATE_UPDATE_SECS", 3600),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.MinInvestment <= 0 || c.MaxInvestment < c.MinInvestment {
		return errors.New("invalid investment bounds")
	}
	if c.ProtocolFeeBp < 0 || c.ProtocolFeeBp > 10_000 ||
		c.ReserveRatioBp < 0 || c.ReserveRatioBp > 10_000 ||
		c.PremiumRateBp < 0 || c.PremiumRateBp > 10_000 {
		return errors.New("basis-point parameters must be within [0,10000]")
	}
	return nil
}

func (c *Config) FundingWindow() time.Duration {
	return time.Duration(c.FundingWindowDays) * 24 * time.Hour
}
func (c *Config) ActivationWindow() time.Duration {
	return time.Duration(c.ActivationWindowDays) * 24 * time.Hour
}
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodDays) * 24 * time.Hour
}
func (c *Config) RateUpdateInterval() time.Duration {
	return time.Duration(c.RateUpdateSecs) * time.Second
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
