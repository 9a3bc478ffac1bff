package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"selfid/internal/audit"
	"selfid/internal/audit/kafka"
	jwttoken "selfid/internal/jwt_token"
	"selfid/internal/platform/config"
	"selfid/internal/platform/httpserver"
	"selfid/internal/platform/logger"
	"selfid/internal/platform/metrics"
	"selfid/internal/platform/middleware"
	"selfid/internal/platform/postgres"
	platformredis "selfid/internal/platform/redis"
	"selfid/internal/registry/clock"
	"selfid/internal/registry/handler"
	registrymetrics "selfid/internal/registry/metrics"
	"selfid/internal/registry/service"
	"selfid/internal/registry/store"
	"selfid/internal/registry/store/didcache"
	id "selfid/pkg/domain"
)

// main wires dependencies and owns the process lifecycle. Registry semantics
// live in internal/registry; nothing here makes a domain decision.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	admin, err := id.ParsePrincipal(cfg.Admin)
	if err != nil {
		return err
	}

	st, cleanup, err := buildStore(ctx, cfg, admin, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// Resume the logical clock where the store left off so sequence numbers
	// stay monotonic across restarts.
	last, err := st.LastSequence(ctx)
	if err != nil {
		return err
	}
	clk := clock.NewLogical(last)

	publisher, worker, closeAudit, err := buildAudit(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()

	svc, err := service.New(st, clk,
		service.WithLogger(log),
		service.WithMetrics(registrymetrics.New()),
		service.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	tokens := jwttoken.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := buildRouter(svc, tokens, log)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	if worker != nil {
		group.Go(func() error {
			err := worker.Run(groupCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	group.Go(func() error {
		log.Info("starting selfid registry", "addr", cfg.Addr, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// buildStore selects the persistence backend and layers the Redis DID cache
// on top when configured.
func buildStore(ctx context.Context, cfg config.Config, admin id.Principal, log *slog.Logger) (store.Store, func(), error) {
	cleanup := func() {}

	var base store.Store
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx, admin); err != nil {
			db.Close()
			return nil, nil, err
		}
		base = pg
		cleanup = func() { db.Close() }
	case config.StoreMemory:
		base = store.NewInMemory(admin)
	default:
		return nil, nil, errors.New("unknown store backend: " + cfg.Store)
	}

	rdb, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if rdb == nil {
		return base, cleanup, nil
	}

	log.Info("did cache enabled")
	closeDB := cleanup
	cleanup = func() {
		rdb.Close()
		closeDB()
	}
	return didcache.New(base, rdb.Client, didcache.WithTTL(config.DIDCacheTTL)), cleanup, nil
}

// buildAudit wires the audit pipeline. Without brokers the trail is kept in
// memory; with brokers events flow through a non-blocking inbox into Kafka.
func buildAudit(ctx context.Context, cfg config.Config, log *slog.Logger) (audit.Publisher, *audit.Worker, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		return audit.NewRecorder(), nil, func() {}, nil
	}

	sink, err := kafka.New(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
	if err != nil {
		return nil, nil, nil, err
	}
	inbox := audit.NewInbox(1024, log)
	worker := audit.NewWorker(sink, inbox, log)
	return inbox, worker, sink.Close, nil
}

func buildRouter(svc *service.Service, tokens *jwttoken.Service, log *slog.Logger) http.Handler {
	h := handler.New(svc, log)
	httpMetrics := metrics.NewHTTP()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(httpMetrics.Instrument)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwttoken.NewServiceAdapter(tokens), log))
		h.Register(r)
	})
	router.Group(h.RegisterReads)

	return router
}
