package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/kakao-ledger/internal/config"
	"github.com/iliyamo/kakao-ledger/internal/handler"
	"github.com/iliyamo/kakao-ledger/internal/middleware"
)

// Ledger holds the handlers served under /api.
type Ledger struct {
	Auth         *handler.AuthHandler
	Categories   *handler.CategoryHandler
	Transactions *handler.TransactionHandler
	Calendar     *handler.CalendarHandler
}

// Caching configures the per-user response cache.  A nil Redis client
// turns both the cache and its invalidation into pass-throughs.
type Caching struct {
	Config config.CacheConfig
	Redis  *redis.Client
}

// RegisterLedger registers the session-scoped API.  Collection paths take
// the target id from the body or ?id=; the /:id forms are equivalent.
func RegisterLedger(e *echo.Echo, p Protected, cache Caching, l Ledger) {
	g := p.group(e)
	gens := middleware.NewCacheGenerations(cache.Redis, cache.Config.Prefix)
	cached := func(resource string) echo.MiddlewareFunc {
		return middleware.NewRedisCache(cache.Config, cache.Redis, gens, resource)
	}

	g.GET("/me", l.Auth.Me)

	// ---- Categories ----
	// A category rename shows up in joined transactions and calendar dots.
	cats := g.Group("/categories",
		cached(middleware.ResourceCategories),
		middleware.InvalidateOn(gens, middleware.ResourceCategories, middleware.ResourceTransactions, middleware.ResourceCalendar),
	)
	cats.GET("", l.Categories.List)
	cats.POST("", l.Categories.Create)
	cats.PUT("", l.Categories.Update)
	cats.PUT("/:id", l.Categories.Update)
	cats.PATCH("", l.Categories.Deactivate)
	cats.PATCH("/:id", l.Categories.Deactivate)

	// ---- Transactions ----
	txs := g.Group("/transactions",
		cached(middleware.ResourceTransactions),
		middleware.InvalidateOn(gens, middleware.ResourceTransactions, middleware.ResourceCalendar),
	)
	txs.GET("", l.Transactions.List)
	txs.POST("", l.Transactions.Create)
	txs.PUT("", l.Transactions.Update)
	txs.PUT("/:id", l.Transactions.Update)
	txs.DELETE("", l.Transactions.Delete)
	txs.DELETE("/:id", l.Transactions.Delete)

	// ---- Calendar ----
	// Without year and month the view follows the clock, so only explicit
	// months are cached.
	cal := g.Group("/calendar", middleware.WhenQuery(cached(middleware.ResourceCalendar), "year", "month"))
	cal.GET("", l.Calendar.Month)
	cal.GET("/days/:day", l.Calendar.Day)
}
