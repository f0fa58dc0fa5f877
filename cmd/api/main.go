package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/storeops/route-scheduler-api/internal/adapters/httpapi"
	memcompletionrepo "github.com/storeops/route-scheduler-api/internal/adapters/memory/completionrepo"
	memopsitemrepo "github.com/storeops/route-scheduler-api/internal/adapters/memory/opsitemrepo"
	memoverriderepo "github.com/storeops/route-scheduler-api/internal/adapters/memory/overriderepo"
	postgres "github.com/storeops/route-scheduler-api/internal/adapters/postgres"
	pgcompletionrepo "github.com/storeops/route-scheduler-api/internal/adapters/postgres/completionrepo"
	pgopsitemrepo "github.com/storeops/route-scheduler-api/internal/adapters/postgres/opsitemrepo"
	pgoverriderepo "github.com/storeops/route-scheduler-api/internal/adapters/postgres/overriderepo"
	"github.com/storeops/route-scheduler-api/internal/app/schedule"
	platformclock "github.com/storeops/route-scheduler-api/internal/platform/clock"
	"github.com/storeops/route-scheduler-api/internal/platform/config"
	completionport "github.com/storeops/route-scheduler-api/internal/ports/out/completionrepo"
	opsitemport "github.com/storeops/route-scheduler-api/internal/ports/out/opsitemrepo"
	overrideport "github.com/storeops/route-scheduler-api/internal/ports/out/overriderepo"
)

func main() {
	// Local convenience; missing .env is not an error.
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "route-scheduler-api").Logger()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var (
		overrideRepo   overrideport.Repository
		opsItemRepo    opsitemport.Repository
		completionRepo completionport.Repository
		cleanup        func()
	)

	switch cfg.StorageBackend {
	case "postgres":
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		cleanup = pool.Close
		if err := postgres.Migrate(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("migrate postgres schema")
		}

		overrideRepo = pgoverriderepo.NewRepo(pool)
		opsItemRepo = pgopsitemrepo.NewRepo(pool)
		completionRepo = pgcompletionrepo.NewRepo(pool)
	default:
		overrideRepo = memoverriderepo.NewRepo()
		opsItemRepo = memopsitemrepo.NewRepo()
		completionRepo = memcompletionrepo.NewRepo()
	}

	if cleanup != nil {
		defer cleanup()
	}

	clk := platformclock.NewSystemClock()
	scheduleSvc := schedule.NewService(overrideRepo, opsItemRepo, completionRepo, clk, cfg.ScheduleLocation)

	api := httpapi.NewServer(scheduleSvc, log)
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		ManagerMiddleware: httpapi.NewManagerMiddleware(cfg.DefaultManager),
		RequestLogger:     httpapi.NewRequestLogger(log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageBackend).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
