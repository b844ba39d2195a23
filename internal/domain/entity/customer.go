package entity

import "time"

// Customer cliente de la empresa; contraparte de la cartera AR.
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	CreatedAt time.Time
}

// Vendor proveedor; contraparte de la cartera AP.
type Vendor struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	CreatedAt time.Time
}
