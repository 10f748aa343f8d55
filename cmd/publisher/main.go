// Command publisher announces that a category's catalog changed, every
// running service reloads it.
package main

import (
	"flag"
	"os"

	"github.com/matst80/compare-finder/pkg/config"
	"github.com/matst80/compare-finder/pkg/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var configDir = flag.String("config", ".", "directory holding config.yaml")

func main() {
	flag.Parse()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if flag.NArg() == 0 {
		logger.Error("usage: publisher [-config dir] <category>...")
		os.Exit(2)
	}
	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.Rabbit.Url == "" {
		logger.Fatal("no rabbit url configured, set COMPARE_RABBIT_URL")
	}

	conn, err := amqp.DialConfig(cfg.Rabbit.Url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		logger.Fatal("failed to connect to rabbitmq", zap.Error(err))
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("failed to open a channel", zap.Error(err))
	}
	if err = messaging.DefineTopic(ch, cfg.Rabbit.Prefix, messaging.CatalogChanged); err != nil {
		logger.Fatal("failed to declare topic", zap.Error(err))
	}
	ch.Close()

	failed := false
	for _, category := range flag.Args() {
		if err := messaging.SendCatalogChanged(conn, cfg.Rabbit.Prefix, category); err != nil {
			logger.Error("failed to publish", zap.String("category", category), zap.Error(err))
			failed = true
			continue
		}
		logger.Info("published catalog change", zap.String("category", category))
	}
	if failed {
		os.Exit(1)
	}
}
