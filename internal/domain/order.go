package domain

import (
	"errors"
	"fmt"
)

// ErrInconsistentTotals indica que total != subtotal + coste de entrega.
// Es una precondición: el pedido no se procesa.
var ErrInconsistentTotals = errors.New("order total does not equal sub total plus slot price")

// LineItem es una línea comprada del pedido. ID es el identificador estable
// del producto del proveedor y se usa como clave de la caché de decisiones.
type LineItem struct {
	ID        string
	Name      string
	Quantity  float64
	TotalCost float64
}

// UnitCost devuelve el coste por unidad. 0 si la cantidad es 0.
func (i LineItem) UnitCost() float64 {
	if i.Quantity == 0 {
		return 0
	}
	return i.TotalCost / i.Quantity
}

func (i LineItem) String() string {
	return fmt.Sprintf("%s of %s @ £%.2f", FormatQuantity(i.Quantity), i.Name, i.TotalCost)
}

// Order es un pedido completo tal como lo entrega el parser del proveedor.
type Order struct {
	ID        string
	SubTotal  float64 // coste sin entrega
	SlotPrice float64 // coste de la franja de entrega
	Total     float64
	Items     []LineItem
}

// Validate comprueba que Total == SubTotal + SlotPrice a precisión monetaria.
func (o Order) Validate() error {
	if !SameAmount(o.Total, o.SubTotal+o.SlotPrice) {
		return fmt.Errorf("%w: order %s: total=%.2f sub_total=%.2f slot_price=%.2f",
			ErrInconsistentTotals, o.ID, o.Total, o.SubTotal, o.SlotPrice)
	}
	return nil
}

// FormatQuantity imprime cantidades enteras sin decimales y el resto con los
// mínimos necesarios (0.5, 0.333...).
func FormatQuantity(q float64) string {
	return fmt.Sprintf("%g", q)
}
