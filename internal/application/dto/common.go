package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ValidationDetail campo rechazado por el validador.
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ShortageDetail detalle de INSUFFICIENT_STOCK.
type ShortageDetail struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Available   string `json:"available"`
	Requested   string `json:"requested"`
}

// TransitionDetail detalle de INVALID_STATE.
type TransitionDetail struct {
	Document string   `json:"document"`
	ID       string   `json:"id"`
	Current  string   `json:"current"`
	Required []string `json:"required"`
}
