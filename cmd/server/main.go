package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"unipass/internal/credential"
	"unipass/internal/credential/revocation"
	"unipass/internal/exeat"
	"unipass/internal/gate"
	"unipass/internal/identity"
	"unipass/internal/notification"
	"unipass/internal/overdue"
	"unipass/internal/penalty"
	"unipass/internal/platform/config"
	"unipass/internal/platform/httpserver"
	"unipass/internal/platform/logger"
	"unipass/internal/platform/metrics"
	platformredis "unipass/internal/platform/redis"
	transport "unipass/internal/transport/http"
)

func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		exeatStore   exeat.Store
		gateStore    gate.Store
		penaltyStore penalty.Store
		health       []transport.HealthCheck
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		exeatStore = exeat.NewPostgresStore(db)
		gateStore = gate.NewPostgresStore(db)
		penaltyStore = penalty.NewPostgresStore(db)
		health = append(health, db.PingContext)
		log.Info("using postgres stores")
	} else {
		exeatStore = exeat.NewInMemoryStore()
		gateStore = gate.NewInMemoryStore()
		penaltyStore = penalty.NewInMemoryStore()
		log.Info("using in-memory stores")
	}

	var revocations gate.RevocationList
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocations = revocation.NewRedisStore(redisClient.Client)
		health = append(health, redisClient.Health)
		log.Info("using redis revocation list")
	} else {
		revocations = revocation.NewInMemoryStore()
	}

	g, ctx := errgroup.WithContext(ctx)

	var events notification.Emitter
	if cfg.KafkaBrokers != "" {
		kafka, err := notification.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		if err != nil {
			return err
		}
		defer kafka.Close()
		events = kafka
		log.Info("publishing events to kafka", "topic", cfg.KafkaTopic)
	} else {
		publisher := notification.NewChannelPublisher(256, log)
		worker := notification.NewWorker(notification.LogSink{Logger: log}, publisher.Inbox(), log)
		g.Go(func() error { return worker.Run(ctx) })
		events = publisher
	}

	codec := credential.NewCodec(cfg.CredentialSigningKey, "unipass")

	exeatService := exeat.NewService(exeatStore, codec, events, m, log)
	penaltyService := penalty.NewService(penaltyStore, penalty.FlatPolicy{
		Overdue:          cfg.OverdueAmount,
		UnauthorizedExit: cfg.UnauthorizedAmount,
	}, events, m, log)
	verifier := gate.NewVerifier(codec, exeatService, gateStore, revocations,
		penaltyService, cfg.EarlyExitTolerance, m, log)
	monitor := overdue.NewMonitor(exeatService, gateStore, penaltyService,
		revocations, cfg.SweepInterval, m, log)

	router := transport.NewRouter(transport.Deps{
		Exeats:    exeatService,
		Gate:      verifier,
		Penalties: penaltyService,
		QR:        credential.RenderQR,
		Verifier:  identity.NewVerifier(cfg.IdentitySigningKey),
		Logger:    log,
		Health:    health,
	})

	server := httpserver.New(cfg.Addr, router)

	g.Go(func() error { return monitor.Run(ctx) })
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
