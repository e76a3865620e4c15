package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/panathinaikos/storefront/internal/cart"
	"github.com/panathinaikos/storefront/internal/catalog"
	"github.com/panathinaikos/storefront/internal/checkout"
	"github.com/panathinaikos/storefront/internal/dashboard"
	"github.com/panathinaikos/storefront/internal/history"
	"github.com/panathinaikos/storefront/internal/httpapi"
	"github.com/panathinaikos/storefront/internal/messaging"
	"github.com/panathinaikos/storefront/internal/rating"
	"github.com/panathinaikos/storefront/internal/telemetry"
	"github.com/panathinaikos/storefront/internal/wishlist"
)

const serviceVersion = "0.1.0"

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	providers, err := telemetry.Init(ctx, "storefront", serviceVersion)
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = providers.Shutdown(ctx) }()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB(postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, messaging.TopicOrderPlaced)
		defer func() { _ = producer.Close() }()
	}

	catalogRepo := catalog.NewRepository(db)
	cartRepo := cart.NewRepository(db)
	orderRepo := checkout.NewRepository(db)
	ratingRepo := rating.NewRepository(db)
	wishlistRepo := wishlist.NewRepository(db)
	historyRepo := history.NewRepository(db)

	catalogHandler := catalog.NewHandler(catalogRepo, ratingRepo, historyRepo, logger)
	cartHandler := cart.NewHandler(cartRepo, catalogRepo, logger)

	var publisher checkout.Publisher
	if producer != nil {
		publisher = producer
	}
	checkoutHandler := checkout.NewHandler(orderRepo, publisher, logger)
	ratingHandler := rating.NewHandler(ratingRepo, catalogRepo, logger)
	wishlistHandler := wishlist.NewHandler(wishlistRepo, catalogRepo, logger)
	dashboardHandler := dashboard.NewHandler(historyRepo, wishlistRepo, ratingRepo, orderRepo, logger)

	route := telemetry.WithHTTPRoute
	user := func(h http.HandlerFunc) http.HandlerFunc {
		return route(httpapi.RequireUser(logger, h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", route(catalogHandler.HandleList))
	mux.HandleFunc("GET /products/{slug}", route(httpapi.OptionalUser(catalogHandler.HandleDetail)))

	mux.HandleFunc("GET /cart", user(cartHandler.HandleView))
	mux.HandleFunc("POST /cart/lines", user(cartHandler.HandleAddLine))
	mux.HandleFunc("PATCH /cart/lines/{id}", user(cartHandler.HandleSetQuantity))
	mux.HandleFunc("DELETE /cart/lines/{id}", user(cartHandler.HandleRemoveLine))

	mux.HandleFunc("POST /checkout", user(checkoutHandler.HandleCheckout))
	mux.HandleFunc("GET /orders", user(checkoutHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", user(checkoutHandler.HandleGet))
	mux.HandleFunc("PATCH /orders/{id}/status", user(checkoutHandler.HandleUpdateStatus))

	mux.HandleFunc("POST /products/{id}/ratings", user(ratingHandler.HandleRate))
	mux.HandleFunc("POST /wishlist/{productId}", user(wishlistHandler.HandleToggle))
	mux.HandleFunc("GET /wishlist", user(wishlistHandler.HandleList))
	mux.HandleFunc("GET /dashboard", user(dashboardHandler.HandleDashboard))

	mux.Handle("GET /metrics", providers.Metrics)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "storefront",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
