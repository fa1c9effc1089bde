package backend

import (
	"context"
	"fmt"
	"log/slog"

	"carteira/internal/amqp"
	"carteira/internal/storage"
	"carteira/internal/store/memory"
)

// Factory creates backends from configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// CreateBackend assembles the store and, when a broker URL is present,
// the AMQP client. A broker that fails to connect is logged and skipped:
// the API keeps working, only the export pipeline goes quiet.
func (f *Factory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	amqpClient := f.connectAMQP(cfg)

	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend",
			"db_path", cfg.SQLiteDBPath,
			"amqp_enabled", amqpClient != nil)
		return &Result{
			Store: repo,
			AMQP:  amqpClient,
			Cleanup: func() error {
				if amqpClient != nil {
					_ = amqpClient.Close()
				}
				return repo.Close()
			},
		}, nil

	case MemoryBackend:
		f.logger.Info("Initialized memory backend", "amqp_enabled", amqpClient != nil)
		return &Result{
			Store: memory.New(),
			AMQP:  amqpClient,
			Cleanup: func() error {
				if amqpClient != nil {
					return amqpClient.Close()
				}
				return nil
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

func (f *Factory) connectAMQP(cfg Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without export events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}
