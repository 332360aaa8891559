package sainsburys

import "github.com/alejandrodnm/grocersplit/internal/domain"

// mapOrder convierte el DTO del export a domain.Order, conservando el orden
// de las líneas.
func mapOrder(r orderExport) domain.Order {
	o := domain.Order{
		ID:        r.OrderUID,
		SubTotal:  r.SubTotal,
		SlotPrice: r.SlotPrice,
		Total:     r.Total,
		Items:     make([]domain.LineItem, 0, len(r.OrderItems)),
	}
	for _, it := range r.OrderItems {
		o.Items = append(o.Items, mapLineItem(it))
	}
	return o
}

func mapLineItem(r orderItem) domain.LineItem {
	return domain.LineItem{
		ID:        r.Product.ProductUID,
		Name:      r.Product.Name,
		Quantity:  r.Quantity,
		TotalCost: r.SubTotal,
	}
}
