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

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"whitelist/internal/application"
	appmetrics "whitelist/internal/application/metrics"
	"whitelist/internal/application/service"
	appstore "whitelist/internal/application/store"
	"whitelist/internal/audit"
	"whitelist/internal/discordbot"
	"whitelist/internal/notify"
	"whitelist/internal/platform/config"
	"whitelist/internal/platform/httpserver"
	"whitelist/internal/platform/logger"
	"whitelist/internal/platform/middleware"
	platformredis "whitelist/internal/platform/redis"
	"whitelist/internal/token"
	"whitelist/internal/token/revocation"
)

// main wires dependencies and runs the two entry adapters side by side.
// Business logic lives in internal/application; both the HTTP handler and
// the Discord bot are thin translators over the same lifecycle service.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	// Storage: Postgres when configured, in-memory otherwise.
	var (
		st         appstore.Store
		auditStore audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}

		pg := appstore.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		auditPg := audit.NewPostgresStore(db)
		if err := auditPg.EnsureSchema(ctx); err != nil {
			return err
		}
		st, auditStore = pg, auditPg
		log.Info("using postgres storage")
	} else {
		st, auditStore = appstore.NewInMemory(), audit.NewInMemoryStore()
		log.Warn("DATABASE_URL not set, using volatile in-memory storage")
	}

	// Token revocation: shared via Redis when configured.
	var revocationList token.RevocationList = revocation.NewInMemory()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		revocationList = revocation.NewRedis(redisClient.Client)
		log.Info("using redis token revocation list")
	}
	tokenManager := token.NewManager(cfg.JWTSigningKey, revocationList)

	// Discord session powers both the notification sink and the bot adapter.
	var (
		session  *discordgo.Session
		notifier notify.Notifier = notify.Noop{}
	)
	if cfg.Discord.BotToken != "" {
		session, err = discordgo.New("Bot " + cfg.Discord.BotToken)
		if err != nil {
			return err
		}
		notifier = notify.NewDiscord(session,
			cfg.Discord.ApplicationChannelID,
			cfg.Discord.LogChannelID,
			cfg.Discord.AdminRoleID,
			log,
		)
	} else {
		log.Warn("DISCORD_BOT_TOKEN not set, discord adapter and notifications disabled")
	}

	svc := application.NewService(st, notifier,
		service.WithLogger(log),
		service.WithAuditPublisher(audit.NewPublisher(auditStore)),
		service.WithMetrics(appmetrics.New()),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Authenticate(tokenManager, log))
	application.NewHandler(svc, log).Register(router)
	token.NewHandler(tokenManager, log).Register(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting whitelist server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if session != nil {
		bot := discordbot.New(session, svc, cfg.Discord, log)
		group.Go(func() error {
			if err := bot.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return bot.Stop()
		})
	}
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
