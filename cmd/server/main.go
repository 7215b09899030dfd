package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/event-seat-booking/internal/config"
	"github.com/iliyamo/event-seat-booking/internal/database"
	"github.com/iliyamo/event-seat-booking/internal/feed"
	"github.com/iliyamo/event-seat-booking/internal/handler"
	"github.com/iliyamo/event-seat-booking/internal/middleware"
	"github.com/iliyamo/event-seat-booking/internal/model"
	"github.com/iliyamo/event-seat-booking/internal/obs"
	"github.com/iliyamo/event-seat-booking/internal/repository"
	"github.com/iliyamo/event-seat-booking/internal/router"
	"github.com/iliyamo/event-seat-booking/internal/service"
)

const serviceName = "event-seat-booking"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, serviceName, cfg.Env, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(c)
	}()

	bookings, items, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	changes, closeFeed, err := openFeed(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFeed()

	backend := service.NewBackend(bookings, items, changes, logger)

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		logger.Warn("redis unavailable, cache and rate limit disabled", "addr", cfg.Redis.Address())
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// Open streams end when the process is asked to stop.
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(logger))
	router.Register(e, handler.New(backend, logger), router.Options{
		JWTSecret:    cfg.JWTSecret,
		Cache:        middleware.ResponseCache(cfg.Cache, rdb),
		BookingLimit: middleware.RateLimit(cfg.RateLimit, rdb),
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", ":"+cfg.Port, "env", cfg.Env,
			"store", cfg.StoreDriver, "feed", cfg.FeedDriver)
		errc <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (service.BookingStore, service.ItemStore, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		store := repository.NewMemoryStore()
		if cfg.Env == "dev" {
			seedDemo(store)
		}
		return store, store, func() {}, nil
	}
	db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	logger.Info("mysql connected", "host", cfg.DBHost, "db", cfg.DBName)
	return repository.NewBookingRepo(db), repository.NewItemRepo(db), closeDB(db), nil
}

func closeDB(db *sql.DB) func() { return func() { _ = db.Close() } }

func openFeed(ctx context.Context, cfg config.Config, logger *slog.Logger) (feed.Feed, func(), error) {
	if cfg.FeedDriver == config.FeedAMQP {
		a, err := feed.DialAMQP(ctx, cfg.RabbitURL, cfg.FeedExchange, logger)
		if err != nil {
			return nil, nil, err
		}
		return a, func() { _ = a.Close() }, nil
	}
	return feed.NewMemory(), func() {}, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func seedDemo(store *repository.MemoryStore) {
	now := time.Now().UTC()
	small := 20
	price := int64(2500)
	store.AddItem(model.Item{
		Type: model.ItemEvent, Title: "Evening Jazz", Location: "Main Hall",
		StartDate: now.Add(7 * 24 * time.Hour), MaxParticipants: &small, TicketPriceCents: &price,
	})
	store.AddItem(model.Item{
		Type: model.ItemMeetup, Title: "Go Meetup", Location: "Room 2",
		StartDate: now.Add(3 * 24 * time.Hour),
	})
}
