package main

import (
	"context"
	"flag"
	"net/http"

	"github.com/matst80/compare-finder/pkg/auth"
	"github.com/matst80/compare-finder/pkg/catalog"
	"github.com/matst80/compare-finder/pkg/common"
	"github.com/matst80/compare-finder/pkg/compare"
	"github.com/matst80/compare-finder/pkg/config"
	"github.com/matst80/compare-finder/pkg/messaging"
	"github.com/matst80/compare-finder/pkg/server"
	"github.com/matst80/compare-finder/pkg/storage"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var configDir = flag.String("config", ".", "directory holding config.yaml")

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *catalog.Registry
	conn     *amqp.Connection
	hooks    []common.ShutdownHook
}

func (a *app) onShutdown(hook common.ShutdownHook) {
	a.hooks = append(a.hooks, hook)
}

func (a *app) source(ctx context.Context) catalog.Source {
	if a.cfg.SQLitePath != "" {
		db, err := storage.OpenSQLiteStorage(ctx, a.cfg.SQLitePath)
		if err != nil {
			a.logger.Fatal("failed to open sqlite catalog", zap.String("path", a.cfg.SQLitePath), zap.Error(err))
		}
		a.onShutdown(func(context.Context) error { return db.Close() })
		a.logger.Info("reading catalogs from sqlite", zap.String("path", a.cfg.SQLitePath))
		return db
	}
	a.logger.Info("reading catalogs from disk", zap.String("dir", a.cfg.CatalogDir))
	return storage.NewDiskStorage(a.cfg.CatalogDir)
}

func (a *app) store(ctx context.Context) compare.Store {
	if a.cfg.Redis.Url == "" {
		a.logger.Info("keeping compare selections in memory")
		return compare.NewMemoryStore(a.cfg.SessionTTL)
	}
	store := compare.NewRedisStore(a.cfg.Redis.Url, a.cfg.Redis.Password, a.cfg.Redis.DB, a.cfg.SessionTTL)
	if err := store.Ping(ctx); err != nil {
		a.logger.Warn("redis not reachable, selections will fail until it is", zap.String("addr", a.cfg.Redis.Url), zap.Error(err))
	}
	a.onShutdown(func(context.Context) error { return store.Close() })
	return store
}

func (a *app) connectAmqp(ctx context.Context) {
	conn, err := amqp.DialConfig(a.cfg.Rabbit.Url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		a.logger.Error("failed to connect to rabbitmq", zap.Error(err))
		return
	}
	a.conn = conn
	a.onShutdown(func(context.Context) error { return conn.Close() })

	ch, err := conn.Channel()
	if err != nil {
		a.logger.Error("failed to open a channel", zap.Error(err))
		return
	}
	if err = messaging.DefineTopic(ch, a.cfg.Rabbit.Prefix, messaging.CatalogChanged); err != nil {
		a.logger.Error("failed to declare topic", zap.Error(err))
		return
	}
	reloader := messaging.ReloaderFunc(func(ctx context.Context, category string) error {
		_, err := a.registry.Reload(ctx, category)
		return err
	})
	if err = messaging.ListenForCatalogChanges(ctx, ch, a.logger, a.cfg.Rabbit.Prefix, reloader); err != nil {
		a.logger.Error("failed to listen for catalog changes", zap.Error(err))
	}
}

func (a *app) notify(category string) error {
	if a.conn == nil {
		return nil
	}
	return messaging.SendCatalogChanged(a.conn, a.cfg.Rabbit.Prefix, category)
}

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	categories, err := catalog.LoadCategories(cfg.CategoriesFile)
	if err != nil {
		logger.Fatal("failed to load categories", zap.String("file", cfg.CategoriesFile), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &app{cfg: cfg, logger: logger}
	a.registry, err = catalog.NewRegistry(a.source(ctx), logger, categories...)
	if err != nil {
		logger.Fatal("invalid categories", zap.Error(err))
	}
	if err = a.registry.LoadAll(ctx); err != nil {
		logger.Warn("not all catalogs loaded", zap.Error(err))
	}

	if cfg.Rabbit.Url != "" {
		a.connectAmqp(ctx)
	}

	var verifier *auth.TokenVerifier
	if cfg.JwtSecret != "" {
		verifier = auth.NewTokenVerifier(cfg.JwtSecret)
	} else {
		logger.Warn("no jwt secret configured, admin routes are disabled")
	}

	ws := server.NewWebServer(a.registry, a.store(ctx), verifier, logger)
	ws.MaxCompare = cfg.MaxCompare
	ws.Notify = a.notify

	srv := common.NewServerWithTimeouts(&http.Server{Addr: cfg.ListenAddress, Handler: ws.Handler()}, cfg.Timeouts)
	a.onShutdown(func(context.Context) error {
		cancel()
		return nil
	})
	common.RunServerWithShutdown(logger, srv, "compare-finder", cfg.Timeouts.Shutdown, cfg.Timeouts.Hook, a.hooks...)
}
