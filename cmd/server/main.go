package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/database"
	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/queue"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/router"
	"github.com/iliyamo/room-reservation/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
		Path:   cfg.SQLitePath,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)

	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		events = service.NewAMQPPublisher(cfg.AMQPURL)
		go queue.StartAuditConsumer(cfg.AMQPURL, cfg.AuditLogPath)
	} else {
		log.Printf("RABBITMQ_URL not set, reservation events disabled")
	}

	booking := service.NewBookingService(rooms, reservations, events, service.WithLocation(cfg.Location))
	creds := service.NewCredentialService(users)
	rdb := config.NewRedisClient(config.LoadRedisConfig())

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Errorf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			c.Logger().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	router.Register(e, router.Deps{
		DB:         db,
		Auth:       handler.NewAuthHandler(cfg, creds),
		Booking:    handler.NewBookingHandler(booking),
		Catalog:    handler.NewCatalogHandler(rooms),
		JWTSecret:  cfg.JWTSecret,
		Redis:      rdb,
		Cache:      config.LoadCacheConfig(),
		BookLimit:  config.LoadRateLimitConfig("RATE_LIMIT_BOOK", config.BookRateLimitDefaults),
		LoginLimit: config.LoadRateLimitConfig("RATE_LIMIT_LOGIN", config.LoginRateLimitDefaults),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

func logLevel(s string) glog.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return glog.DEBUG
	case "warn", "warning":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	default:
		return glog.INFO
	}
}
