package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// Seeder carga datos maestros (compañía, bodegas, terceros y plan de cuentas).
// Es idempotente: volver a cargar el mismo id actualiza el nombre y no duplica.
type Seeder struct {
	q Querier
}

func NewSeeder(q Querier) *Seeder {
	return &Seeder{q: q}
}

func (s *Seeder) Company(ctx context.Context, id, name, taxID string) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO companies (id, name, tax_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, tax_id = EXCLUDED.tax_id`,
		id, name, taxID)
	if err != nil {
		return fmt.Errorf("seed company: %w", err)
	}
	return nil
}

func (s *Seeder) Warehouse(ctx context.Context, w entity.Warehouse) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO warehouses (id, company_id, name, allow_negative_stock) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, allow_negative_stock = EXCLUDED.allow_negative_stock`,
		w.ID, w.CompanyID, w.Name, w.AllowNegativeStock)
	if err != nil {
		return fmt.Errorf("seed warehouse: %w", err)
	}
	return nil
}

func (s *Seeder) Customer(ctx context.Context, c entity.Customer) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO customers (id, company_id, name, tax_id, email) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, tax_id = EXCLUDED.tax_id, email = EXCLUDED.email`,
		c.ID, c.CompanyID, c.Name, c.TaxID, c.Email)
	if err != nil {
		return fmt.Errorf("seed customer: %w", err)
	}
	return nil
}

func (s *Seeder) Vendor(ctx context.Context, v entity.Vendor) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO vendors (id, company_id, name, tax_id, email) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, tax_id = EXCLUDED.tax_id, email = EXCLUDED.email`,
		v.ID, v.CompanyID, v.Name, v.TaxID, v.Email)
	if err != nil {
		return fmt.Errorf("seed vendor: %w", err)
	}
	return nil
}

// Accounts crea las cuentas del motor que falten y devuelve los ids por código.
func (s *Seeder) Accounts(ctx context.Context, companyID string, m accounting.AccountMap) (map[string]string, error) {
	ids := make(map[string]string)
	for _, a := range accounting.ChartOfAccounts(m) {
		var id string
		err := s.q.QueryRow(ctx, `
			INSERT INTO accounts (id, company_id, code, name, type) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (company_id, code) DO UPDATE SET name = accounts.name
			RETURNING id`,
			uuid.New().String(), companyID, a.Code, a.Name, string(a.Type),
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("seed account %s: %w", a.Code, err)
		}
		ids[a.Code] = id
	}
	return ids, nil
}
