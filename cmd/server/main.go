// Command server wires the SaaS starter services together: configuration,
// structured logging, PostgreSQL with migrations, Redis-backed rate
// limiting, the Paddle billing provider, and the HTTP modules.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	billingmod "github.com/dmitrymomot/launchpad/modules/billing"
	supportmod "github.com/dmitrymomot/launchpad/modules/support"
	"github.com/dmitrymomot/launchpad/pkg/config"
	"github.com/dmitrymomot/launchpad/pkg/email"
	"github.com/dmitrymomot/launchpad/pkg/httpserver"
	"github.com/dmitrymomot/launchpad/pkg/identity"
	"github.com/dmitrymomot/launchpad/pkg/logger"
	"github.com/dmitrymomot/launchpad/pkg/pg"
	"github.com/dmitrymomot/launchpad/pkg/ratelimit"
	"github.com/dmitrymomot/launchpad/pkg/redis"
	"github.com/dmitrymomot/launchpad/pkg/subscription"
	"github.com/dmitrymomot/launchpad/pkg/support"
)

type appConfig struct {
	DevEmailSender bool `env:"DEV_EMAIL_SENDER" envDefault:"false"`

	PlanChangeLimit  int           `env:"PLAN_CHANGE_RATE_LIMIT" envDefault:"10"`
	PlanChangeWindow time.Duration `env:"PLAN_CHANGE_RATE_WINDOW" envDefault:"1m"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		appCfg     appConfig
		srvCfg     httpserver.Config
		logCfg     logger.Config
		pgCfg      pg.Config
		redisCfg   redis.Config
		emailCfg   email.Config
		paddleCfg  subscription.PaddleConfig
		catalogCfg subscription.CatalogConfig
	)
	for _, load := range []func() error{
		func() error { return config.Load(&appCfg) },
		func() error { return config.Load(&srvCfg) },
		func() error { return config.Load(&logCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&emailCfg) },
		func() error { return config.Load(&paddleCfg) },
		func() error { return config.Load(&catalogCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log := logger.NewFromConfig(logCfg)
	slog.SetDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() { _ = redisClient.Close() }()

	provider, err := subscription.NewPaddleProvider(paddleCfg)
	if err != nil {
		return fmt.Errorf("paddle: %w", err)
	}

	subscriptionSvc, err := subscription.NewService(ctx,
		subscription.NewConfigSource(catalogCfg),
		subscription.DefaultGraph(),
		provider,
		subscription.NewPgStore(pool),
		subscription.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("subscription service: %w", err)
	}

	var sender email.Sender
	if appCfg.DevEmailSender {
		sender = email.NewDevSender(log)
	} else {
		sender, err = email.NewPostmarkSender(emailCfg)
		if err != nil {
			return fmt.Errorf("email: %w", err)
		}
	}
	supportSvc := support.NewService(support.NewPgStore(pool), sender, log)

	limiter := ratelimit.NewRedisLimiter(redisClient, ratelimit.Config{
		Limit:  appCfg.PlanChangeLimit,
		Window: appCfg.PlanChangeWindow,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(identity.TrustedHeaders())

	r.Mount("/billing", billingmod.Router(billingmod.RouterOptions{
		Service:  subscriptionSvc,
		Identity: identity.ContextProvider{},
		Limiter:  limiter,
	}))
	r.Post("/webhooks/billing", billingmod.WebhookHandler(subscriptionSvc))
	r.Mount("/support", supportmod.Router(supportSvc))

	r.Get("/healthz", httpserver.Healthz())
	r.Get("/readyz", httpserver.Readyz(log,
		pool.Ping,
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	))

	return httpserver.New(srvCfg, log).Run(ctx, r)
}
