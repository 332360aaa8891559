package domain

// Reconciliation compara lo asignado con el subtotal declarado del pedido.
type Reconciliation struct {
	Expected float64 // sub_total del pedido
	Actual   float64 // suma de todos los costes asignados
	Matched  bool    // iguales a precisión monetaria
}

// Reconcile calcula la conciliación del ledger contra subTotal.
// Los items ignorados no están en el ledger y por tanto no cuentan.
func Reconcile(l *Ledger, subTotal float64) Reconciliation {
	actual := l.Total()
	return Reconciliation{
		Expected: subTotal,
		Actual:   actual,
		Matched:  SameAmount(actual, subTotal),
	}
}

// Statement es el resultado de una ejecución que consumen los renderers.
// Los renderers solo leen; ninguno modifica el ledger.
type Statement struct {
	OrderID        string
	SlotPrice      float64
	Ledger         *Ledger
	Reconciliation Reconciliation
}

// DeliveryShare devuelve la parte del coste de entrega de cada participante.
func (s Statement) DeliveryShare() float64 {
	return s.SlotPrice / float64(len(participants))
}

// DeliveryQuantity devuelve la fracción de la entrega que paga cada uno.
func (s Statement) DeliveryQuantity() float64 {
	return 1 / float64(len(participants))
}

// TotalFor devuelve lo que debe pagar p: lo asignado más su parte de la entrega.
func (s Statement) TotalFor(p Participant) float64 {
	return s.Ledger.Allocated(p) + s.DeliveryShare()
}
