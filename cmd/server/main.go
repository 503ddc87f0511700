package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/booking"
	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/database"
	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/logger"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/payment"
	"github.com/iliyamo/cinema-booking/internal/pricing"
	"github.com/iliyamo/cinema-booking/internal/queue"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/repository/jsonstore"
	"github.com/iliyamo/cinema-booking/internal/repository/memory"
	"github.com/iliyamo/cinema-booking/internal/router"
)

// stores is the storage selected by STORE_DRIVER.
type stores struct {
	tickets booking.TicketStore
	promos  pricing.PromocodeFinder
	catalog handler.Catalog
	orders  handler.OrderStore
	close   func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl := logger.Must(cfg.Env)
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("open storage", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer st.close()

	rdb := config.NewRedisClient(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
		st.orders = repository.NewPendingOrderRepo(rdb, cfg.OrderTTL)
		zl.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		zl.Warn("redis unavailable, rate limiting and caching disabled", zap.String("addr", cfg.Redis.Addr))
		if st.orders == nil {
			st.orders = memory.New(cfg.OrderTTL)
		}
	}

	var notifier booking.Notifier
	if cfg.QueueEnabled {
		notifier = queue.NewPublisher(cfg.RabbitMQURL, zl)
		consumer := queue.NewConsumer(cfg.RabbitMQURL, zl)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("booking log consumer stopped", zap.Error(err))
			}
		}()
	}

	gw, err := payment.NewGateway(payment.Config{
		PublicKey:   cfg.LiqPay.PublicKey,
		PrivateKey:  cfg.LiqPay.PrivateKey,
		Sandbox:     cfg.LiqPay.Sandbox,
		CheckoutURL: cfg.LiqPay.CheckoutURL,
		BaseURL:     cfg.PublicBaseURL,
	})
	if err != nil {
		zl.Fatal("payment gateway", zap.Error(err))
	}

	resolver := booking.NewResolver(st.tickets, notifier, zl)
	promos := pricing.NewValidator(st.promos, zl)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(zl))

	opts := router.Options{
		JWTSecret: cfg.JWTSecret,
		RateLimit: cfg.RateLimit,
		Cache:     cfg.Cache,
		Redis:     rdb,
		Log:       zl,
	}
	router.RegisterRoutes(e)
	v1 := router.API(e, opts)
	router.RegisterCatalog(v1, handler.NewCatalogHandler(st.catalog), router.Cache(opts))
	router.RegisterBooking(v1,
		handler.NewBookingHandler(resolver, st.catalog, promos, zl),
		handler.NewPromocodeHandler(promos, zl))
	router.RegisterPayments(v1,
		handler.NewPaymentHandler(gw, st.catalog, promos, booking.NewFinalizer(resolver), st.orders, zl))

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg config.Config, zl *zap.Logger) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMySQL:
		db, err := database.Open(ctx, database.Options{
			User:     cfg.DBUser,
			Password: cfg.DBPass,
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			Name:     cfg.DBName,
		})
		if err != nil {
			return stores{}, err
		}
		if cfg.DBMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return stores{}, err
			}
		}
		return stores{
			tickets: repository.NewTicketRepo(db),
			promos:  repository.NewPromocodeRepo(db),
			catalog: struct {
				*repository.SessionRepo
				*repository.HallRepo
			}{repository.NewSessionRepo(db), repository.NewHallRepo(db)},
			close: func() { db.Close() },
		}, nil
	case config.StoreMemory:
		m := memory.New(cfg.OrderTTL)
		m.Seed(time.Now())
		zl.Warn("using in-memory storage with demo data")
		return stores{tickets: m, promos: m, catalog: m, orders: m, close: func() {}}, nil
	default:
		c := jsonstore.New(cfg.BackendBaseURL)
		return stores{tickets: c, promos: c, catalog: c, close: func() {}}, nil
	}
}
