package memory

import (
	"github.com/google/uuid"

	"github.com/jhoicas/erp-workflow-api/internal/domain/accounting"
	"github.com/jhoicas/erp-workflow-api/internal/domain/entity"
)

// Carga de datos maestros fuera de transacción (tests y modo demo).

// SeedAccounts crea las cuentas de m para companyID y devuelve sus ids por código.
func (s *Store) SeedAccounts(companyID string, m accounting.AccountMap) map[string]string {
	plan := accounting.ChartOfAccounts(m)
	ids := make(map[string]string, len(plan))
	for _, a := range plan {
		a.ID = uuid.New().String()
		a.CompanyID = companyID
		s.AddAccount(a)
		ids[a.Code] = a.ID
	}
	return ids
}

// AddAccount agrega una cuenta; reemplaza la de igual código en la compañía.
func (s *Store) AddAccount(a entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := accountKey{companyID: a.CompanyID, code: a.Code}
	if old, ok := s.data.accountByCode[k]; ok {
		delete(s.data.accounts, old)
	}
	s.data.accounts[a.ID] = &a
	s.data.accountByCode[k] = a.ID
}

// RemoveAccount borra una cuenta del plan de la compañía.
func (s *Store) RemoveAccount(companyID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := accountKey{companyID: companyID, code: code}
	if id, ok := s.data.accountByCode[k]; ok {
		delete(s.data.accounts, id)
		delete(s.data.accountByCode, k)
	}
}

func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.customers[c.ID] = &c
}

func (s *Store) AddVendor(v entity.Vendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.vendors[v.ID] = &v
}

func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.warehouses[w.ID] = &w
}

// SetStock fija un saldo inicial; recalcula el disponible.
func (s *Store) SetStock(level entity.StockLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	level.QuantityAvailable = level.QuantityOnHand.Sub(level.QuantityReserved)
	s.data.stock[level.Key()] = &level
}
