package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Almacen-api/internal/application/analytics"
	"github.com/jhoicas/Almacen-api/internal/application/audit"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	infrakafka "github.com/jhoicas/Almacen-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Almacen-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	stockRepo := postgres.NewStockRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	actionLogRepo := postgres.NewActionLogRepository(pool)
	aggregateRepo := postgres.NewAggregateRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin REDIS_ADDR los agregados se recalculan en cada
	// lectura y la deduplicación por llave de idempotencia queda desactivada.
	var (
		cache       analytics.Cache
		idempotency inventory.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		redisCache, err := infraredis.New(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		cache = redisCache
		idempotency = redisCache
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: cache de agregados e idempotencia desactivados")
	}

	// Kafka es opcional: sin brokers la bitácora persiste solo en DB.
	var publisher audit.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := infrakafka.NewStockEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	recorder := audit.NewRecorder(actionLogRepo, publisher, log)
	defer recorder.Close()

	aggregateUC := analytics.NewAggregateUseCase(aggregateRepo, cache, log)
	transferUC := inventory.NewTransferUseCase(txRunner, stockRepo, idempotency, aggregateUC, recorder, log)
	itemUC := inventory.NewItemUseCase(txRunner, stockRepo, warehouseRepo, aggregateUC, recorder, log, cfg.Stock.DefaultLowStockThreshold)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, stockRepo)
	authUC := auth.NewUseCase(userRepo, cfg.JWT)

	monitor := inventory.NewLowStockMonitor(stockRepo, log, cfg.Stock.MonitorInterval)
	if err := monitor.Start(); err != nil {
		log.Fatal().Err(err).Msg("arranque del monitor de stock bajo")
	}
	defer monitor.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacen API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:      itemUC,
		TransferUC:  transferUC,
		Monitor:     monitor,
		WarehouseUC: warehouseUC,
		AggregateUC: aggregateUC,
		Recorder:    recorder,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
