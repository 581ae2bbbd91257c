package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/commands"
	health_controller "presence/backend/internal/controller/http/v1/health"
	"presence/backend/internal/pkg/config"
	"presence/backend/internal/pkg/logger"
	"presence/backend/internal/pkg/repository/postgresql"
	"presence/backend/internal/repository/memory"
	"presence/backend/internal/repository/redis/session"
	"presence/backend/internal/router"
)

// build is overridden with -ldflags "-X main.build=<version>".
var build = "develop"

const namespace = "PRESENCE"

type settings struct {
	conf.Version
	Args conf.Args

	Web struct {
		Host            string        `conf:"default:0.0.0.0:8000"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:10s"`
		IdleTimeout     time.Duration `conf:"default:120s"`
		ShutdownTimeout time.Duration `conf:"default:20s"`
	}

	Config   string `conf:"default:config.yaml"`
	LogLevel string `conf:"default:info"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg settings
	cfg.Version.SVN = build
	cfg.Version.Desc = "employee attendance service"

	if err := conf.Parse(os.Args[1:], namespace, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(namespace, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(namespace, &cfg)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return nil
		}
		return errors.Wrap(err, "parsing config")
	}

	log := logger.New(cfg.LogLevel).With("service", "presence-api", "build", build)

	out, err := conf.String(&cfg)
	if err != nil {
		return errors.Wrap(err, "generating config for output")
	}
	log.Info("startup", "config", out)

	svc, err := config.NewConfig(cfg.Config)
	if err != nil {
		return errors.Wrap(err, "loading service config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd := cfg.Args.Num(0); cmd {
	case "", "serve":
		return serve(ctx, cfg, svc, log)
	case "migrate":
		return migrate(ctx, svc, log)
	default:
		return errors.Errorf("unknown command %q", cmd)
	}
}

func openPostgres(ctx context.Context, svc *config.Config) (*postgresql.Database, error) {
	return postgresql.NewDB(ctx, postgresql.Config{
		User:       svc.DBUsername,
		Password:   svc.DBPassword,
		Addr:       svc.DBAddr(),
		Name:       svc.DBName,
		DisableTLS: svc.DisableTLS,
		Debug:      svc.DBDebug,
	})
}

func migrate(ctx context.Context, svc *config.Config, log *logger.Logger) error {
	if svc.Storage != config.StoragePostgres {
		return errors.Errorf("migrate needs postgres storage, got %q", svc.Storage)
	}

	db, err := openPostgres(ctx, svc)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = commands.MigrateUP(ctx, db, log.With("component", "migrate")); err != nil {
		return err
	}

	log.Info("migrations complete", "version", commands.Version())

	return nil
}

func serve(ctx context.Context, cfg settings, svc *config.Config, log *logger.Logger) error {
	pingers := make(map[string]health_controller.Pinger)

	var sessions auth.Sessions
	if svc.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     svc.RedisAddr,
			Password: svc.RedisPassword,
			DB:       svc.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return errors.Wrap(err, "connecting to redis")
		}
		sessions = session.NewRepository(rdb)
		pingers["redis"] = health_controller.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	var stores router.Stores
	switch svc.Storage {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, svc)
		if err != nil {
			return err
		}
		defer db.Close()

		if svc.AutoMigrate {
			if err = commands.MigrateUP(ctx, db, log.With("component", "migrate")); err != nil {
				return err
			}
		}

		if sessions == nil {
			sessions = memory.NewSessionStore(memory.NewDB())
		}
		stores = router.PostgresStores(db, sessions)
		pingers["postgres"] = db
	case config.StorageMemory:
		mem := memory.NewDB()
		stores = router.MemoryStores(mem)
		if sessions != nil {
			stores.Sessions = sessions
		}
	}

	app := web.NewApp()
	r := router.NewRouter(app, stores, pingers, router.Config{
		Auth: auth.Config{
			Key:        svc.JWTKey,
			TokenTTL:   svc.TokenTTL,
			BcryptCost: svc.BcryptCost,
		},
		AllowedOrigins: svc.AllowedOrigins,
	}, log)
	if err := r.Init(); err != nil {
		return errors.Wrap(err, "initialising router")
	}

	server := http.Server{
		Addr:         cfg.Web.Host,
		Handler:      app,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("api listening", "addr", server.Addr, "storage", svc.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serving api")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown started")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return errors.Wrap(err, "stopping server gracefully")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("shutdown complete")

	return nil
}
