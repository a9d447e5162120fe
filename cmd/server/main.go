package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rramosdev/shop-backoffice/internal/config"
	"github.com/rramosdev/shop-backoffice/internal/database"
	"github.com/rramosdev/shop-backoffice/internal/handler"
	"github.com/rramosdev/shop-backoffice/internal/logger"
	"github.com/rramosdev/shop-backoffice/internal/middleware"
	"github.com/rramosdev/shop-backoffice/internal/oauth"
	"github.com/rramosdev/shop-backoffice/internal/queue"
	"github.com/rramosdev/shop-backoffice/internal/repository"
	"github.com/rramosdev/shop-backoffice/internal/router"
	"github.com/rramosdev/shop-backoffice/internal/service"
	"github.com/rramosdev/shop-backoffice/internal/token"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Env)

	db, err := database.Open(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// Redis is optional infrastructure. With no client the rate limiter and
	// response cache simply stay off.
	rdb := config.NewRedisClient()

	issuer := token.NewIssuer(
		cfg.AccessSecret, cfg.RefreshSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
	)
	recovery := token.NewRecoveryCodec(cfg.RecoverySecret, time.Duration(cfg.RecoveryTTLMin)*time.Minute)

	users := repository.NewUserRepo(db)
	shops := repository.NewShopRepo(db)
	products := repository.NewProductRepo(db)
	inventories := repository.NewInventoryRepo(db)
	invoices := repository.NewInvoiceRepo(db)

	mail := queue.NewPublisher(cfg.AMQPURL)
	go queue.StartEmailConsumer(cfg.AMQPURL)

	authSvc := service.NewAuthService(users, issuer, recovery, mail, cfg)
	userSvc := service.NewUserService(users, authSvc, cfg.BcryptCost)

	authH := handler.NewAuthHandler(authSvc, issuer, oauth.NewGoogleProvider(cfg.GoogleUserInfoURL))
	userH := handler.NewUserHandler(userSvc)
	shopH := handler.NewShopHandler(shops)
	productH := handler.NewProductHandler(products, shops)
	inventoryH := handler.NewInventoryHandler(inventories, shops)
	invoiceH := handler.NewInvoiceHandler(invoices, shops)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())

	var limiter, cache echo.MiddlewareFunc
	if rlCfg := config.LoadRateLimitConfig(); rlCfg.Enabled && rdb != nil {
		limiter = middleware.NewTokenBucket(rlCfg, rdb)
	}
	if cCfg := config.LoadCacheConfig(); cCfg.Enabled && rdb != nil {
		cache = middleware.NewRedisCache(cCfg, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, userH, issuer, limiter)
	router.RegisterUsers(e, userH, issuer, cache)
	router.RegisterShops(e, shopH, productH, inventoryH, invoiceH, issuer, cache)

	addr := ":" + cfg.Port
	logger.Log.WithField("addr", addr).WithField("env", cfg.Env).Info("listening")
	if err := e.Start(addr); err != nil {
		logger.Log.WithError(err).Fatal("server stopped")
	}
}
