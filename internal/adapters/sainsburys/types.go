package sainsburys

// DTOs raw del export de pedidos. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

type orderExport struct {
	OrderUID   string      `json:"order_uid"`
	SubTotal   float64     `json:"sub_total"`
	SlotPrice  float64     `json:"slot_price"`
	Total      float64     `json:"total"`
	OrderItems []orderItem `json:"order_items"`
}

type orderItem struct {
	Quantity float64 `json:"quantity"`
	SubTotal float64 `json:"sub_total"`
	Product  product `json:"product"`
}

type product struct {
	ProductUID string `json:"product_uid"`
	Name       string `json:"name"`
}
