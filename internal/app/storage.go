package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/adanyl0v/todo-assistant/internal/config"
	"github.com/adanyl0v/todo-assistant/internal/services"
	"github.com/adanyl0v/todo-assistant/internal/storage"
)

var (
	globalStorage     storage.Backend
	globalTaskService services.TaskService
)

// MustOpenStorage opens the configured backend and loads the saved tasks.
func MustOpenStorage() {
	cfg := config.Global().Storage

	switch cfg.Backend {
	case config.StorageFile:
		globalStorage = storage.NewFileBackend(cfg.FilePath)
	case config.StorageMemory:
		globalStorage = storage.NewMemoryBackend()
	case config.StorageSQLite:
		backend, err := storage.NewSQLiteBackend(cfg.SQLitePath, cfg.Key)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Str("path", cfg.SQLitePath).
				Msg("failed to open sqlite storage")
			panic(err)
		}
		globalStorage = backend
	case config.StoragePostgres:
		globalStorage = mustOpenPostgresStorage()
	case config.StorageRedis:
		globalStorage = mustOpenRedisStorage()
	default:
		err := fmt.Errorf("unknown storage backend: %s", cfg.Backend)
		globalLogger.Error().
			Err(err).
			Msg("failed to open storage")
		panic(err)
	}
	globalLogger.Info().
		Str("backend", cfg.Backend).
		Str("key", cfg.Key).
		Msg("opened storage")

	globalTaskService = services.NewTaskService(componentLogger("tasks"), globalStorage)
	globalTaskService.Load(context.Background())
}

func CloseStorage() {
	err := globalStorage.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	globalLogger.Info().Msg("closed storage")
}

func mustOpenRedisStorage() storage.Backend {
	cfg := config.Global()
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.PingTimeout)
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("addr", cfg.Redis.Addr).
			Msg("failed to ping redis")
		panic(err)
	}
	globalLogger.Info().
		Str("addr", cfg.Redis.Addr).
		Msg("connected to redis")

	return storage.NewRedisBackend(client, cfg.Storage.Key)
}
