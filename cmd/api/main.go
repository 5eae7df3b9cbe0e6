package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	collabadp "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/adapter/collab"
	httpadp "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/adapter/http"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/adapter/middleware"
	mysqlrepo "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/adapter/repository/mysql"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/config"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/infrastructure/cache"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/infrastructure/db"
	"github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/observability"
	guaranteeUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/guarantee"
	insuranceUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/insurance"
	poolUC "github.com/poolsyncdefi-ui/structured-lending-protocol-clean/internal/usecase/pool"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := observability.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("mysql connection failed")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}

	tx := mysqlrepo.NewGormUoW(gdb)

	insurance := insuranceUC.NewUsecase(tx, insuranceUC.Config{
		PremiumRateBp: cfg.PremiumRateBp,
		PolicyGrace:   cfg.GracePeriod(),
	}, log)
	guarantee := guaranteeUC.NewUsecase(tx, guaranteeUC.Config{
		ReserveRatioBp: cfg.ReserveRatioBp,
	}, log)

	sink := collabadp.LogSink{Log: log}
	engine := poolUC.NewEngine(tx, poolUC.Config{
		MinInvestment:      cfg.MinInvestment,
		MaxInvestment:      cfg.MaxInvestment,
		ProtocolFeeBp:      cfg.ProtocolFeeBp,
		FundingWindow:      cfg.FundingWindow(),
		ActivationWindow:   cfg.ActivationWindow(),
		GracePeriod:        cfg.GracePeriod(),
		RateUpdateInterval: cfg.RateUpdateInterval(),
	}, poolUC.Collaborators{
		Validator: collabadp.ApproveAllValidator{},
		Oracle:    collabadp.PassthroughOracle{},
		Promos:    collabadp.NoPromotions{},
		Notifier:  sink,
		Minter:    sink,
	}, insurance, guarantee, log)

	h := httpadp.NewHandler(engine, guarantee, insurance)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idem := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)
	h.Register(e, idem)

	addr := ":" + cfg.AppPort
	log.Info().Str("addr", addr).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
