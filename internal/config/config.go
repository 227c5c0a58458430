package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr        string // API bind address, e.g. "127.0.0.1:8080" or ":8080"
	LogDir      string // logs directory
	DatabaseURL string // postgres DSN; empty means in-memory store

	ProbeTimeout  time.Duration // per-check timeout
	RetryAttempts int           // attempts per check (1 = no retry)
	RetryBackoff  time.Duration // backoff between retries

	CheckInterval time.Duration // rechecker interval; 0 disables

	SlackWebhook    string
	AlertOnRecovery bool
	AlertCooldown   time.Duration
	AlertPoll       time.Duration

	PublicAPIKeys []string
	AdminAPIKeys  []string

	PublicRPM   int
	PublicBurst int
	AdminRPM    int
	AdminBurst  int
}

func FromEnv() Config {
	cfg := Config{
		Addr:            envStr("ADDR", "127.0.0.1:8080"),
		LogDir:          envStr("LOG_DIR", "logs"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ProbeTimeout:    envMS("PROBE_TIMEOUT_MS", 10*time.Second),
		RetryAttempts:   envInt("RETRY_ATTEMPTS", 2),
		RetryBackoff:    envMS("RETRY_BACKOFF_MS", 300*time.Millisecond),
		CheckInterval:   envMS("CHECK_INTERVAL_MS", time.Minute),
		SlackWebhook:    os.Getenv("SLACK_WEBHOOK"),
		AlertOnRecovery: os.Getenv("ALERT_ON_RECOVERY") != "false",
		AlertCooldown:   envMS("ALERT_COOLDOWN_MS", 15*time.Minute),
		AlertPoll:       envMS("ALERT_POLL_MS", 30*time.Second),
		PublicAPIKeys:   envList("PUBLIC_API_KEYS"),
		AdminAPIKeys:    envList("ADMIN_API_KEYS"),
		PublicRPM:       envInt("PUBLIC_RPM", 120),
		PublicBurst:     envInt("PUBLIC_BURST", 60),
		AdminRPM:        envInt("ADMIN_RPM", 60),
		AdminBurst:      envInt("ADMIN_BURST", 30),
	}
	return cfg
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// envMS reads a duration given in milliseconds. "0" is a valid value
// (callers use it to disable a loop).
func envMS(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

func envList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
