package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	texthandler "github.com/apex/log/handlers/text"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"claimequity/internal/analytics"
	"claimequity/internal/bias"
	"claimequity/internal/config"
	"claimequity/internal/domain"
	"claimequity/internal/handler"
	"claimequity/internal/metrics"
	"claimequity/internal/port"
	"claimequity/internal/prediction"
	"claimequity/internal/provider"
	"claimequity/internal/provider/amplitude"
	"claimequity/internal/provider/capitalone"
	"claimequity/internal/provider/dedalus"
	"claimequity/internal/provider/knot"
	"claimequity/internal/provider/openai"
	"claimequity/internal/repository/memory"
	"claimequity/internal/repository/postgres"
	"claimequity/internal/router"
	"claimequity/internal/service"
	s3storage "claimequity/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize provider adapters
	openai.Register()
	dedalus.Register()
	capitalone.Register()
	knot.Register()
	amplitude.Register()
	adapters, byName, err := buildAdapters(cfg)
	if err != nil {
		return err
	}

	// Initialize bias storage
	store, closeStore, err := buildBiasStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Bias.EphemeralSalt {
		log.Warn("bias.salt is not set; hashing with a random per-process salt")
	}
	hasher, err := bias.NewHasher(cfg.Bias.Salt)
	if err != nil {
		return fmt.Errorf("failed to initialize bias hasher: %w", err)
	}
	policy, err := bias.NewRepeatPolicy(cfg.Bias.RepeatPolicy, cfg.Bias.RepeatCap, cfg.Bias.RepeatWindow)
	if err != nil {
		return fmt.Errorf("failed to initialize repeat policy: %w", err)
	}

	var snapshots port.ObjectStorage
	if cfg.S3.Enabled() {
		snapshots, err = s3storage.NewSnapshotStore(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	tables, err := prediction.LoadTables(cfg.Prediction.TablesPath)
	if err != nil {
		return fmt.Errorf("failed to load prediction tables: %w", err)
	}

	// Analytics is sent only for requests that carry an Amplitude key
	tracker := analytics.NewTracker(byName[domain.ProviderAmplitude], cfg.Providers.Amplitude.Timeout(), 0)

	// Initialize services
	maxBytes := cfg.Upload.MaxFileSizeMB << 20
	claimSvc := service.NewClaimService(maxBytes, tracker)
	summarizeSvc := service.NewSummarizeService(adapters, service.SummarizeConfig{
		Order:         cfg.Summarizer.Order,
		ChainTimeout:  cfg.Summarizer.ChainTimeout,
		MaxInputChars: cfg.Summarizer.MaxInputChars,
		LocalMaxChars: cfg.Summarizer.LocalMaxChars,
	})
	predictionSvc := service.NewPredictionService(prediction.NewEngine(tables), tracker)
	biasSvc := service.NewBiasService(store, hasher, policy, snapshots, tracker, service.BiasConfig{
		Thresholds: bias.Thresholds{
			MinSample:         cfg.Bias.MinSample,
			RelativeRisk:      cfg.Bias.RelativeRisk,
			MinHeatmapBuckets: cfg.Bias.MinHeatmapBuckets,
		},
		HeatmapTTL:     cfg.Bias.HeatmapTTL,
		SnapshotBucket: cfg.S3.Bucket,
	})
	appealSvc := service.NewAppealService(adapters, tracker, service.AppealConfig{
		Order:         cfg.Appeal.Order,
		MaxInputChars: cfg.Appeal.MaxInputChars,
	})
	insightSvc := service.NewInsightService(
		byName[domain.ProviderXAI],
		byName[domain.ProviderCapitalOne],
		byName[domain.ProviderKnot],
		cfg.Providers.XAI.MaxTokens,
	)

	// Setup router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.Setup(router.Handlers{
		Health:     handler.NewHealthHandler(),
		Claim:      handler.NewClaimHandler(claimSvc, summarizeSvc, maxBytes),
		Prediction: handler.NewPredictionHandler(predictionSvc),
		Bias:       handler.NewBiasHandler(biasSvc),
		Appeal:     handler.NewAppealHandler(appealSvc),
		Insight:    handler.NewInsightHandler(insightSvc),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if werr := tracker.Wait(shutdownCtx); werr != nil {
			log.WithError(werr).Warn("analytics events still in flight at shutdown")
		}
		return err
	})
	return g.Wait()
}

func setupLogging(cfg *config.Config) {
	if strings.EqualFold(cfg.Log.Format, "json") {
		log.SetHandler(jsonhandler.New(os.Stderr))
	} else {
		log.SetHandler(texthandler.New(os.Stderr))
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = log.InfoLevel
		log.WithField("level", cfg.Log.Level).Warn("unknown log level, using info")
	}
	log.SetLevel(level)
}

// buildAdapters creates every registered adapter, wrapped with the outbound
// throttle and metrics.
func buildAdapters(cfg *config.Config) ([]port.ProviderAdapter, map[string]port.ProviderAdapter, error) {
	var adapters []port.ProviderAdapter
	byName := make(map[string]port.ProviderAdapter)
	for _, name := range provider.Registered() {
		pcfg := cfg.Providers.ByName(name)
		if pcfg == nil {
			return nil, nil, fmt.Errorf("no configuration for provider %q", name)
		}
		a, err := provider.New(name, pcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create provider %q: %w", name, err)
		}
		wrapped := provider.Instrument(provider.NewThrottled(a, pcfg.RatePerSecond, pcfg.Burst))
		adapters = append(adapters, wrapped)
		byName[name] = wrapped
		log.WithFields(log.Fields{"provider": name, "model": pcfg.DefaultModel}).Debug("provider adapter ready")
	}
	return adapters, byName, nil
}

func buildBiasStore(cfg *config.Config) (port.BiasStore, func(), error) {
	if cfg.Bias.Store != "postgres" {
		log.Warn("bias aggregates are held in memory and reset on restart")
		return memory.NewBiasStore(), func() {}, nil
	}
	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return postgres.NewBiasStoreRepo(db), func() { db.Close() }, nil
}
