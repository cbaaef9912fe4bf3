package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the service. Values come from
// the environment so deployments stay twelve-factor; the hardcoded wallet
// addresses and key files of early prototypes live here instead of in code.
type Config struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	JWTSigningKey string
	SessionTTL    time.Duration

	OpenPayments OpenPaymentsConfig
}

// OpenPaymentsConfig holds the client identity and deployment wallets for the
// Open Payments network.
type OpenPaymentsConfig struct {
	// WalletAddressURL identifies the client to authorization servers. Must be
	// an absolute https URL with no trailing slash.
	WalletAddressURL string
	// KeyID and PrivateKeyPath locate the Ed25519 key pair registered with the
	// wallet provider; outbound requests are signed with it.
	KeyID          string
	PrivateKeyPath string
	// ReceiverWalletURL is the default receiving wallet for transfers that do
	// not name an explicit receiver.
	ReceiverWalletURL string
	// RedirectBaseURI is where the authorization server sends the user after
	// acting on an interactive grant. The transaction id is appended as a
	// query parameter so the callback can be correlated.
	RedirectBaseURI string
	// RequestTimeout bounds every remote call.
	RequestTimeout time.Duration
}

// RedisConfig mirrors the connection knobs go-redis exposes.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the payment event publisher. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:          envOr("BIOPAY_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		SessionTTL:    envDuration("SESSION_TTL", 24*time.Hour),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_PAYMENT_TOPIC", "biopay.payments"),
		},
		OpenPayments: OpenPaymentsConfig{
			WalletAddressURL:  os.Getenv("OP_WALLET_ADDRESS_URL"),
			KeyID:             os.Getenv("OP_KEY_ID"),
			PrivateKeyPath:    envOr("OP_PRIVATE_KEY_PATH", "private.key"),
			ReceiverWalletURL: os.Getenv("OP_RECEIVER_WALLET_URL"),
			RedirectBaseURI:   os.Getenv("OP_REDIRECT_URI"),
			RequestTimeout:    envDuration("OP_REQUEST_TIMEOUT", 15*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
