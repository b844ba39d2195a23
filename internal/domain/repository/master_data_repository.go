package repository

import (
	"context"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// Datos maestros: el motor solo los lee. (nil, nil) si no existen.

type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
}

type VendorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
}

type WarehouseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}
