package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	AccountingProvider     string
	AccountingAPIBaseURL   string
	AccountingTokenURL     string
	AccountingClientID     string
	AccountingClientSecret string
	AccountingRateLimitRPS int
	AccountingTimeoutMs    int

	SyncPollerIntervalSec int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	FunctionsBaseURL   string
	FunctionsToken     string
	FunctionsTimeoutMs int

	BrandTenantName   string
	BrandCompanyName  string
	BrandAccentColor  string
	BrandLogoURL      string
	BrandPortalURL    string
	BrandSupportEmail string

	InviteExpiryDays int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "admin.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		AccountingProvider:     getEnv("ACCOUNTING_PROVIDER", "quickbooks"),
		AccountingAPIBaseURL:   getEnv("ACCOUNTING_API_BASE_URL", ""),
		AccountingTokenURL:     getEnv("ACCOUNTING_TOKEN_URL", ""),
		AccountingClientID:     getEnv("ACCOUNTING_CLIENT_ID", ""),
		AccountingClientSecret: getEnv("ACCOUNTING_CLIENT_SECRET", ""),
		AccountingRateLimitRPS: getEnvInt("ACCOUNTING_RATE_LIMIT_RPS", 5),
		AccountingTimeoutMs:    getEnvInt("ACCOUNTING_TIMEOUT_MS", 30000),

		SyncPollerIntervalSec: getEnvInt("SYNC_POLLER_INTERVAL_SEC", 300),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "no-reply@stridewms.local"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Stride WMS"),

		FunctionsBaseURL:   getEnv("FUNCTIONS_BASE_URL", ""),
		FunctionsToken:     getEnv("FUNCTIONS_TOKEN", ""),
		FunctionsTimeoutMs: getEnvInt("FUNCTIONS_TIMEOUT_MS", 15000),

		BrandTenantName:   getEnv("BRAND_TENANT_NAME", "Stride"),
		BrandCompanyName:  getEnv("BRAND_COMPANY_NAME", "Stride Logistics"),
		BrandAccentColor:  getEnv("BRAND_ACCENT_COLOR", "#1f6feb"),
		BrandLogoURL:      getEnv("BRAND_LOGO_URL", ""),
		BrandPortalURL:    getEnv("BRAND_PORTAL_URL", "https://portal.stridewms.local"),
		BrandSupportEmail: getEnv("BRAND_SUPPORT_EMAIL", "support@stridewms.local"),

		InviteExpiryDays: getEnvInt("INVITE_EXPIRY_DAYS", 7),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
