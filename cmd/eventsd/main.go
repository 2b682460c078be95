package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/PratikDhanave/events-protocol-client/internal/config"
	"github.com/PratikDhanave/events-protocol-client/internal/handlers"
	"github.com/PratikDhanave/events-protocol-client/internal/httpserver"
	"github.com/PratikDhanave/events-protocol-client/internal/logging"
	"github.com/PratikDhanave/events-protocol-client/internal/store"
)

// main boots the reference server: config → journal → handlers → HTTP server.
func main() {
	log := logging.ConfigureRuntime()

	// Load runtime config from environment (LISTEN_ADDR, DB_URL, API_KEYS).
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	journal, err := openJournal(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("journal")
	}
	defer journal.Close()

	reg := handlers.NewRegistry()
	handlers.RegisterBuiltins(reg)

	router := httpserver.NewRouter(cfg, reg, journal, log)

	log.Info().Str("addr", cfg.ListenAddr).Strs("events", reg.Names()).Bool("auth", len(cfg.APIKeys) > 0).Msg("server started")
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// openJournal connects to Postgres when DB_URL is set, else keeps the journal in memory.
func openJournal(cfg config.ServerConfig, log zerolog.Logger) (store.Journal, error) {
	if cfg.DBURL == "" {
		log.Warn().Msg("DB_URL not set, journal is in-memory")
		return store.NewMemoryJournal(), nil
	}

	pg, err := store.NewPostgresJournal(cfg.DBURL)
	if err != nil {
		return nil, err
	}
	// Ensure the journal table exists so `docker compose up --build` is enough.
	if err := pg.EnsureSchema(context.Background()); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
