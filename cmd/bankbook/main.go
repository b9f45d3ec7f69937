package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/abkawan/bankbook/internal/config"
	"github.com/abkawan/bankbook/internal/feed"
	"github.com/abkawan/bankbook/internal/ledger"
	"github.com/abkawan/bankbook/internal/service"
	"github.com/abkawan/bankbook/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg)

	gateway, err := openGateway(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s gateway: %v", cfg.Backend, err)
	}
	defer gateway.Close(ctx)

	store := ledger.NewStore(gateway, logger)
	if err := store.Load(ctx); err != nil {
		log.Fatalf("failed to load ledger: %v", err)
	}

	if cfg.AMQPURI != "" {
		publisher, err := feed.NewRabbitMQ(cfg.AMQPURI)
		if err != nil {
			log.Fatalf("failed to connect journal feed: %v", err)
		}
		defer publisher.Close()
		store.AttachFeed(publisher)
	}

	users := service.NewUserService(store, logger)
	accounts := service.NewAccountService(store, logger)
	transfers := service.NewTransferService(store, logger)

	cli := newCLI(users, accounts, transfers, os.Stdin, os.Stdout)
	cli.Run(ctx)
}

// newLogger builds the slog logger. Logs go to stderr, or to a rotating
// file when log_file is set, keeping stdout free for the menu.
func newLogger(cfg *config.Config) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openGateway selects the persistence backend from config.
func openGateway(ctx context.Context, cfg *config.Config) (storage.Gateway, error) {
	switch cfg.Backend {
	case "postgres":
		gateway, err := storage.NewPostgresGateway(cfg.PostgresURI)
		if err != nil {
			return nil, err
		}
		if err := gateway.InitSchema(ctx); err != nil {
			gateway.Close(ctx)
			return nil, err
		}
		return gateway, nil
	case "mongo":
		return storage.NewMongoGateway(cfg.MongoURI, cfg.MongoDB)
	case "memory":
		return storage.NewMemoryGateway(), nil
	default:
		return storage.NewFileGateway(cfg.DataDir)
	}
}
