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

	"github.com/jhoicas/erp-workflow-api/internal/application/workflow"
	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/erp-workflow-api/internal/interfaces/http"
	"github.com/jhoicas/erp-workflow-api/pkg/config"
	"github.com/jhoicas/erp-workflow-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	tracing, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log.Named("telemetry"))
	if err != nil {
		log.Fatal().Err(err).Msg("proveedor de trazas")
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	var tx workflow.TxRunner
	if cfg.App.UsesMemoryStore() {
		store := memory.NewStore()
		seedDemo(store, cfg, log)
		tx = store
		log.Warn().Msg("motor sobre almacén en memoria: los datos se pierden al reiniciar")
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx = postgres.NewTxRunner(pool, cfg.Workflow, log.Named("postgres"))
	}

	engine := workflow.NewEngine(tx, workflow.Options{
		Accounts: accounting.DefaultAccountMap(),
		Tracer:   tracing.Tracer("erp/workflow"),
	}, log.Zerolog())

	idem, err := idempotency.New(cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de idempotencia")
	}
	defer idem.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "ERP Workflow API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:         engine,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
		Log:            log.Named("http"),
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
