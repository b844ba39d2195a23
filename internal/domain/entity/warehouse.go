package entity

import "time"

// Warehouse bodega donde se almacena inventario.
// AllowNegativeStock permite despachar por encima de las existencias.
type Warehouse struct {
	ID                 string
	CompanyID          string
	Name               string
	AllowNegativeStock bool
	CreatedAt          time.Time
}
