// Package app wires the application together: configuration, database,
// domain services, HTTP server and graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/ecostore/backend/internal/auth"
	"github.com/ecostore/backend/internal/domain/cart"
	"github.com/ecostore/backend/internal/domain/catalog"
	"github.com/ecostore/backend/internal/domain/dashboard"
	"github.com/ecostore/backend/internal/domain/loyalty"
	"github.com/ecostore/backend/internal/domain/order"
	"github.com/ecostore/backend/internal/domain/rating"
	"github.com/ecostore/backend/internal/domain/recommend"
	"github.com/ecostore/backend/internal/domain/user"
	"github.com/ecostore/backend/internal/handler"
	"github.com/ecostore/backend/internal/payment"
	"github.com/ecostore/backend/internal/repository"
	"github.com/ecostore/backend/pkg/health"
	"github.com/ecostore/backend/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.SetReady(true)

	// Repositories.
	productRepo := repository.NewProductRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	// Payment provider and auth collaborators.
	paymentGateway := payment.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.Secret)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	hasher := auth.NewBcryptHasher(0)

	// Domain services.
	loyaltySvc := loyalty.NewService(userRepo, couponRepo)
	productSvc := catalog.NewService(productRepo, productRepo)
	userSvc := user.NewService(userRepo, hasher)
	cartSvc := cart.NewService(cartRepo, productRepo)
	ratingSvc := rating.NewService(ratingRepo, productRepo)
	orderSvc := order.NewService(orderRepo, productRepo, couponRepo, paymentGateway, loyaltySvc, lg)
	dashboardSvc := dashboard.NewService(orderRepo, productRepo, statsRepo)
	recommender := recommend.NewGateway(cfg.Recommend.BaseURL,
		&http.Client{Timeout: cfg.Recommend.Timeout}, productRepo, lg)

	// HTTP handlers.
	h := handler.New(
		userSvc, tokens, productSvc, cartSvc, orderSvc,
		ratingSvc, loyaltySvc, dashboardSvc, recommender, paymentGateway,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Router())

	wrapped := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			Origins:          cfg.CORS.Origins,
			Headers:          []string{"Content-Type", "Authorization"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(wrapped, "ecostore-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
