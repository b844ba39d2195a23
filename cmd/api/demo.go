package main

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/erp-workflow-api/pkg/config"
	"github.com/jhoicas/erp-workflow-api/pkg/jwt"
	"github.com/jhoicas/erp-workflow-api/pkg/logger"
)

// seedDemo crea una compañía de demostración (APP_ENV=memory) y registra
// sus ids y un token admin de 12h para probar la API.
func seedDemo(store *memory.Store, cfg *config.Config, log *logger.Logger) {
	companyID := uuid.New().String()
	warehouseID := uuid.New().String()
	customerID := uuid.New().String()
	vendorID := uuid.New().String()

	store.SeedAccounts(companyID, accounting.DefaultAccountMap())
	store.AddWarehouse(entity.Warehouse{ID: warehouseID, CompanyID: companyID, Name: "Bodega Principal"})
	store.AddCustomer(entity.Customer{ID: customerID, CompanyID: companyID, Name: "Cliente Demo", TaxID: "900000001"})
	store.AddVendor(entity.Vendor{ID: vendorID, CompanyID: companyID, Name: "Proveedor Demo", TaxID: "800000001"})

	token, err := jwt.Generate(cfg.JWT.Secret, cfg.JWT.Issuer, jwt.Identity{
		UserID:    uuid.New().String(),
		CompanyID: companyID,
		Role:      "admin",
	}, 12*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("token de demostración")
	}

	log.Info().
		Str("company_id", companyID).
		Str("warehouse_id", warehouseID).
		Str("customer_id", customerID).
		Str("vendor_id", vendorID).
		Str("token", token).
		Msg("datos de demostración cargados")
}
