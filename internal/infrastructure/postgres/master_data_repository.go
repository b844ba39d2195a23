package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
	"github.com/jhoicas/erp-workflow-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository  = (*CustomerRepo)(nil)
	_ repository.VendorRepository    = (*VendorRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// CustomerRepo lectura de clientes.
type CustomerRepo struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, name, tax_id, email, created_at
		FROM customers WHERE id = $1`, id,
	).Scan(&c.ID, &c.CompanyID, &c.Name, &c.TaxID, &c.Email, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// VendorRepo lectura de proveedores.
type VendorRepo struct {
	q Querier
}

func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var v entity.Vendor
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, name, tax_id, email, created_at
		FROM vendors WHERE id = $1`, id,
	).Scan(&v.ID, &v.CompanyID, &v.Name, &v.TaxID, &v.Email, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return &v, nil
}

// WarehouseRepo lectura de bodegas.
type WarehouseRepo struct {
	q Querier
}

func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, name, allow_negative_stock, created_at
		FROM warehouses WHERE id = $1`, id,
	).Scan(&w.ID, &w.CompanyID, &w.Name, &w.AllowNegativeStock, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}
	return &w, nil
}
