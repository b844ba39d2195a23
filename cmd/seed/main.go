// seed carga los datos maestros de una compañía (bodegas, clientes, proveedores)
// y su plan de cuentas mínimo, a partir de un CSV.
//
// Uso: go run ./cmd/seed -company <uuid> -name "Mi Empresa" [-tax-id 900...] [-latin1] datos.csv
//
// Los archivos en ISO-8859-1 se detectan solos; -latin1 fuerza la conversión.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-workflow-api/pkg/config"
	"github.com/jhoicas/erp-workflow-api/pkg/logger"
)

func main() {
	companyID := flag.String("company", "", "UUID de la compañía (vacío = nuevo)")
	companyName := flag.String("name", "", "razón social")
	taxID := flag.String("tax-id", "", "NIT de la compañía")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	if *companyName == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed -name <razón social> [-company <uuid>] [-tax-id <nit>] [-latin1] datos.csv")
		os.Exit(2)
	}
	if *companyID == "" {
		*companyID = uuid.New().String()
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	in, err := decodeInput(raw, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("decodificar CSV")
	}
	md, err := parseMasterData(in, *companyID)
	if err != nil {
		log.Fatal().Err(err).Msg("interpretar CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s := postgres.NewSeeder(tx)
	if err := s.Company(ctx, *companyID, *companyName, *taxID); err != nil {
		log.Fatal().Err(err).Msg("compañía")
	}
	for _, w := range md.Warehouses {
		if err := s.Warehouse(ctx, w); err != nil {
			log.Fatal().Err(err).Str("id", w.ID).Msg("bodega")
		}
	}
	for _, c := range md.Customers {
		if err := s.Customer(ctx, c); err != nil {
			log.Fatal().Err(err).Str("id", c.ID).Msg("cliente")
		}
	}
	for _, v := range md.Vendors {
		if err := s.Vendor(ctx, v); err != nil {
			log.Fatal().Err(err).Str("id", v.ID).Msg("proveedor")
		}
	}
	accounts, err := s.Accounts(ctx, *companyID, accounting.DefaultAccountMap())
	if err != nil {
		log.Fatal().Err(err).Msg("plan de cuentas")
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatal().Err(err).Msg("commit transaction")
	}

	log.Info().
		Str("company_id", *companyID).
		Int("warehouses", len(md.Warehouses)).
		Int("customers", len(md.Customers)).
		Int("vendors", len(md.Vendors)).
		Int("accounts", len(accounts)).
		Msg("datos maestros cargados")
}
