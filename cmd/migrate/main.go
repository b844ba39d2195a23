// migrate aplica (o revierte) el esquema embebido en migrations/.
//
// Uso: go run ./cmd/migrate [up|down]
package main

import (
	"os"

	"github.com/jhoicas/erp-workflow-api/migrations"
	"github.com/jhoicas/erp-workflow-api/pkg/config"
	"github.com/jhoicas/erp-workflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "up":
		err = migrations.Up(cfg.DB.MigrateURL())
	case "down":
		err = migrations.Down(cfg.DB.MigrateURL())
	default:
		log.Fatal().Str("direction", direction).Msg("dirección desconocida: use up o down")
	}
	if err != nil {
		log.Fatal().Err(err).Str("direction", direction).Msg("migración")
	}
	log.Info().Str("direction", direction).Msg("migración aplicada")
}
