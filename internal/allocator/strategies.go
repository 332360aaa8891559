package allocator

import (
	"errors"
	"fmt"

	"github.com/alejandrodnm/grocersplit/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrRatioMismatch indica que los ratios no suman la cantidad de la línea.
var ErrRatioMismatch = errors.New("ratios do not sum to item quantity")

// ErrNothingToSplit indica que la línea no tiene cantidad positiva que repartir.
var ErrNothingToSplit = errors.New("item has no quantity to split")

// AssignWhole asigna la línea completa a p.
func AssignWhole(l *domain.Ledger, p domain.Participant, item domain.LineItem) {
	l.Append(p, domain.AllocatedItem{
		ID:       item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Cost:     item.TotalCost,
	})
}

// SplitEqual reparte cantidad y coste a partes iguales entre todos.
func SplitEqual(l *domain.Ledger, item domain.LineItem) {
	roster := domain.Participants()
	n := float64(len(roster))
	for _, p := range roster {
		l.Append(p, domain.AllocatedItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity / n,
			Cost:     item.TotalCost / n,
		})
	}
}

// SplitByRatio reparte item.Quantity según ratios. Los ratios deben ser no
// negativos y sumar exactamente la cantidad; si no, el ledger no se toca y se
// devuelve ErrRatioMismatch. Un participante ausente en ratios recibe 0.
func SplitByRatio(l *domain.Ledger, item domain.LineItem, ratios map[domain.Participant]decimal.Decimal) error {
	if item.Quantity <= 0 {
		return ErrNothingToSplit
	}
	roster := domain.Participants()

	sum := decimal.Zero
	for _, p := range roster {
		r := ratios[p]
		if r.IsNegative() {
			return fmt.Errorf("%w: negative ratio %s for %s", ErrRatioMismatch, r, p)
		}
		sum = sum.Add(r)
	}

	quantity := decimal.NewFromFloat(item.Quantity)
	if !sum.Equal(quantity) {
		return fmt.Errorf("%w: got %s, want %s", ErrRatioMismatch, sum, quantity)
	}

	for _, p := range roster {
		r := ratios[p].InexactFloat64()
		l.Append(p, domain.AllocatedItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: r,
			Cost:     item.TotalCost * r / item.Quantity,
		})
	}
	return nil
}
