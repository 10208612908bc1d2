package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/kakao-ledger/internal/config"
	"github.com/iliyamo/kakao-ledger/internal/database"
	"github.com/iliyamo/kakao-ledger/internal/handler"
	"github.com/iliyamo/kakao-ledger/internal/kakao"
	"github.com/iliyamo/kakao-ledger/internal/logging"
	"github.com/iliyamo/kakao-ledger/internal/middleware"
	"github.com/iliyamo/kakao-ledger/internal/queue"
	"github.com/iliyamo/kakao-ledger/internal/repository"
	"github.com/iliyamo/kakao-ledger/internal/repository/memory"
	"github.com/iliyamo/kakao-ledger/internal/router"
	"github.com/iliyamo/kakao-ledger/internal/service"
	"github.com/iliyamo/kakao-ledger/internal/utils"
)

type stores struct {
	users repository.UserStore
	cats  repository.CategoryStore
	txs   repository.TransactionStore
	close func() error
}

func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.DataBackend == config.BackendMemory {
		slog.Warn("using in-memory backend, data is lost on restart")
		m := memory.New()
		return stores{users: m.Users(), cats: m.Categories(), txs: m.Transactions(), close: func() error { return nil }}, nil
	}

	dsn := database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := database.Open(ctx, dsn)
	if err != nil {
		return stores{}, err
	}
	if err := database.Migrate(dsn); err != nil {
		_ = db.Close()
		return stores{}, err
	}
	return stores{
		users: repository.NewUserRepo(db),
		cats:  repository.NewCategoryRepo(db),
		txs:   repository.NewTransactionRepo(db),
		close: db.Close,
	}, nil
}

func main() {
	// A missing .env is fine; the process environment wins either way.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer func(c *redis.Client) { _ = c.Close() }(rdb)
	}

	var pub service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPub := service.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
		defer amqpPub.Close()
		pub = amqpPub
	}
	events := service.NewEvents(pub)

	issuer, err := utils.NewSessionIssuer(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(cfg.CalendarTZ)
	if err != nil {
		return err
	}
	providerEnabled := kakao.InitProvider(kakao.Config{
		ClientID:      cfg.KakaoClientID,
		ClientSecret:  cfg.KakaoClientSecret,
		CallbackURL:   cfg.KakaoCallbackURL,
		SessionSecret: cfg.SessionSecret,
		Secure:        cfg.CookieSecure,
	})

	deny := middleware.NewDenylist(rdb, "ledger:deny")
	errs := handler.Errors{Hide: cfg.IsProd()}

	auth := handler.NewAuthHandler(issuer, service.NewIdentitySync(st.users, events), kakao.NewRevoker(cfg.KakaoLogoutURL, nil), deny)
	auth.RedirectURL = cfg.LoginRedirectURL
	auth.CookieSecure = cfg.CookieSecure
	auth.ProviderEnabled = providerEnabled

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(logging.RequestLogger(logger))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, auth)
	router.RegisterLedger(e,
		router.Protected{
			Sessions: issuer,
			Deny:     deny,
			Limit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		},
		router.Caching{Config: config.LoadCacheConfig(), Redis: rdb},
		router.Ledger{
			Auth:         auth,
			Categories:   handler.NewCategoryHandler(st.cats, events, errs),
			Transactions: handler.NewTransactionHandler(st.txs, st.cats, events, errs),
			Calendar:     handler.NewCalendarHandler(st.txs, loc, errs),
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		slog.Info("listening", "addr", addr, "env", cfg.Env, "backend", cfg.DataBackend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.EventsConsumer {
		g.Go(func() error {
			return queue.NewAuditConsumer(cfg.AMQPURL, cfg.EventsQueue, cfg.AuditLogPath).Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
