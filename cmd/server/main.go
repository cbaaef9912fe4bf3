// Command server wires the biopay HTTP service: account and wallet management
// plus the Open Payments transfer pipeline. Business logic lives in the
// internal service packages; main only assembles them.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "biopay/internal/auth/handler"
	authservice "biopay/internal/auth/service"
	sessionstore "biopay/internal/auth/store/session"
	userstore "biopay/internal/auth/store/user"
	"biopay/internal/openpayments"
	"biopay/internal/payment/events"
	paymenthandler "biopay/internal/payment/handler"
	"biopay/internal/payment/lock"
	paymentservice "biopay/internal/payment/service"
	grantstore "biopay/internal/payment/store/grant"
	"biopay/internal/platform/config"
	"biopay/internal/platform/httpserver"
	"biopay/internal/platform/logger"
	"biopay/internal/platform/metrics"
	"biopay/internal/platform/middleware"
	"biopay/internal/platform/postgres"
	redisplatform "biopay/internal/platform/redis"
	"biopay/internal/transaction"
	"biopay/internal/transport/shared"
	"biopay/internal/wallet"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Stores fall back to in-memory implementations when no database is
	// configured, which keeps local development to a single binary.
	var (
		grants paymentservice.GrantStore = grantstore.NewMemoryStore()
		txs    transaction.Store         = transaction.NewMemoryStore()
		users  authservice.UserStore     = userstore.NewMemoryStore()
		sess   authservice.SessionStore  = sessionstore.NewMemoryStore()
		wals   wallet.Store              = wallet.NewMemoryStore()
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		grants = grantstore.NewPostgres(db)
		txs = transaction.NewPostgres(db)
		users = userstore.NewPostgres(db)
		sess = sessionstore.NewPostgres(db)
		wals = wallet.NewPostgres(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	var locker paymentservice.Locker = lock.NewMemoryLocker()
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		locker = lock.NewRedisLocker(redisClient.Client)
	} else {
		log.Warn("REDIS_URL not set, finalize locking is process-local")
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := kp.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("event publisher stopped", "error", err)
			}
		}()
		publisher = kp
	}

	signer, err := openpayments.NewSignerFromFile(cfg.OpenPayments.KeyID, cfg.OpenPayments.PrivateKeyPath)
	if err != nil {
		log.Error("load signing key", "error", err, "path", cfg.OpenPayments.PrivateKeyPath)
		os.Exit(1)
	}
	opClient := openpayments.NewHTTPClient(
		cfg.OpenPayments.WalletAddressURL,
		signer,
		openpayments.WithTimeout(cfg.OpenPayments.RequestTimeout),
	)

	auth := authservice.New(users, sess, log, m, []byte(cfg.JWTSigningKey), cfg.SessionTTL)
	wallets := wallet.NewService(wals, log)
	payments := paymentservice.New(opClient, grants, txs, locker, publisher, m, log, paymentservice.Config{
		RedirectBaseURI:          cfg.OpenPayments.RedirectBaseURI,
		DefaultReceiverWalletURL: cfg.OpenPayments.ReceiverWalletURL,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))
	r.Use(middleware.ContentTypeJSON)

	authhandler.New(auth, log, auth).Register(r)
	wallet.NewHandler(wallets, log, auth).Register(r)
	paymenthandler.New(payments, wallets, log, auth).Register(r)
	transaction.NewHandler(txs, log, auth).Register(r)

	r.Get("/healthz", healthz(redisClient))
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, r)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

func healthz(redisClient *redisplatform.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
