package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"retouchd/internal/editor"
	"retouchd/internal/genai"
	"retouchd/internal/http/handlers"
	"retouchd/internal/http/httpapi"
	"retouchd/internal/infra"
	"retouchd/internal/infra/geoip"
	"retouchd/internal/middleware"
	"retouchd/internal/storage"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// GeoIP is optional; without it locale detection relies on headers.
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
		if closer, ok := resolver.(*geoip.Resolver); ok {
			defer closer.Close()
		}
	}

	client, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}

	svc, err := editor.New(editor.Options{
		Client:       client,
		Logger:       &logger,
		LogResponses: cfg.LogUpstreamResponses,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build editor")
	}

	var store *storage.FileStore
	if cfg.StoragePath != "" {
		store, err = storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize result storage")
		}
	}

	app := handlers.NewApp(cfg, logger, svc, store)
	router := httpapi.NewRouter(app, cfg, logger, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("model", client.Model()).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
