package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/todo-assistant/internal/config"
)

func MustReadEnv() {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Backend).
		Bool("auth", cfg.AuthEnabled()).
		Msg("read env")

	config.SetGlobal(cfg)
}
