package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/securecookie"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/cache"
	"pharmacy-dashboard/internal/config"
	"pharmacy-dashboard/internal/handlers"
	"pharmacy-dashboard/internal/logger"
	"pharmacy-dashboard/internal/page"
	"pharmacy-dashboard/internal/server"
)

const serviceName = "pharmacy-dashboard"

func main() {
	cfg, err := config.LoadServerConfigWithEnvFile(os.Getenv("PHARMA_DASH_ENV_FILE"))
	if err != nil {
		logger.New(serviceName, "development", "error").Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(serviceName, cfg.Environment, cfg.LogLevel)

	metadataCache := cache.NewManager(cfg.DisableCache, cfg.CacheTTL, log.WithComponent("cache").Logger)
	defer metadataCache.Close()

	client := api.NewClient(cfg.APIEndpoint,
		api.WithTimeout(cfg.APITimeout),
		api.WithMetadataCache(metadataCache),
		api.WithLogger(log.WithComponent("api").Logger),
	)

	hashKey := []byte(cfg.SessionSecret)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
		log.Warn().Msg("no session secret configured; browser sessions will not survive a restart")
	}
	store := server.NewCookieStore(hashKey, cfg.SessionIdleTimeout, cfg.SessionSecure)

	registry := server.NewRegistry(store,
		server.NewSessionFactory(client, cfg.CriticalThreshold, log.WithComponent("dashboard")),
		cfg.SessionIdleTimeout,
		log.WithComponent("sessions"),
	)
	defer registry.Close()

	renderer, err := page.NewRenderer(cfg.LogoURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load page templates")
	}

	handlerWrappers := server.NewHandlerWrappers(
		handlers.NewDashboardHandler(registry, renderer, log.WithComponent("handlers").Logger),
		handlers.NewHealthHandler(metadataCache, registry),
		handlers.NewAdminHandler(metadataCache, log.WithComponent("admin").Logger),
		handlers.NewStaticHandler(page.Static()),
	)

	loginPerMinute := cfg.LoginRateLimit
	if cfg.DisableRateLimit {
		loginPerMinute = 0
	}
	router := server.NewRouter(handlerWrappers, server.RouterOptions{
		Logger:         log.WithComponent("http"),
		Production:     cfg.Environment == "production",
		LoginPerMinute: loginPerMinute,
	})

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: router,

		// Summary requests against a spreadsheet backend can be slow
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().
		Str("endpoint", client.Endpoint()).
		Bool("cache_enabled", metadataCache.IsEnabled()).
		Dur("cache_ttl", metadataCache.GetTTL()).
		Msg("dashboard server configured")

	if err := server.HandleSignals(srv, cfg.ShutdownTimeout, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
