package issuer

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config is the runtime configuration for the issuer application.
type Config struct {
	HTTPAddr string

	Brokers           []string
	GroupID           string
	TopicRiskApproved string
	TopicRiskRejected string
	TopicAuthorized   string
	TopicDeclined     string

	// LedgerBaseURL points at the limits/credit lookup service.
	LedgerBaseURL string
	LedgerTimeout time.Duration

	// MaxAmountCents is the issuer rule engine ceiling.
	MaxAmountCents int64
	// AllowedPlans is the allow-listed set of installment counts.
	AllowedPlans []int
	// MerchantRates maps merchant id (or WildcardMerchant) to its rate table.
	MerchantRates map[string]RateTable
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:          "localhost:9090",
		Brokers:           []string{"localhost:9092"},
		GroupID:           "issuer-simulator",
		TopicRiskApproved: "payment.risk.approved",
		TopicRiskRejected: "payment.risk.rejected",
		TopicAuthorized:   "payment.authorized",
		TopicDeclined:     "payment.declined",
		LedgerBaseURL:     "http://localhost:8080",
		LedgerTimeout:     5 * time.Second,
		MaxAmountCents:    1_000_000,
		AllowedPlans:      []int{1, 2, 6, 12},
		MerchantRates: map[string]RateTable{
			WildcardMerchant: {
				2:  decimal.RequireFromString("0.020"),
				6:  decimal.RequireFromString("0.060"),
				12: decimal.RequireFromString("0.120"),
			},
			"m1": {
				2:  decimal.RequireFromString("0.015"),
				6:  decimal.RequireFromString("0.050"),
				12: decimal.RequireFromString("0.100"),
			},
		},
	}
}

// ConfigFromEnv builds a Config from the environment, falling back to
// defaults. Rate tables are static configuration for now.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.GroupID = getenv("KAFKA_GROUP_ID", cfg.GroupID)
	cfg.LedgerBaseURL = getenv("LEDGER_BASE_URL", cfg.LedgerBaseURL)
	cfg.TopicRiskApproved = getenv("TOPIC_RISK_APPROVED", cfg.TopicRiskApproved)
	cfg.TopicRiskRejected = getenv("TOPIC_RISK_REJECTED", cfg.TopicRiskRejected)
	cfg.TopicAuthorized = getenv("TOPIC_AUTHORIZED", cfg.TopicAuthorized)
	cfg.TopicDeclined = getenv("TOPIC_DECLINED", cfg.TopicDeclined)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("LEDGER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.LedgerTimeout = d
		}
	}
	if v := os.Getenv("ISSUER_MAX_AMOUNT_CENTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxAmountCents = n
		}
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
