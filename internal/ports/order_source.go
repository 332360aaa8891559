package ports

import (
	"context"

	"github.com/alejandrodnm/grocersplit/internal/domain"
)

// OrderSource obtiene un pedido ya parseado del export del proveedor.
type OrderSource interface {
	LoadOrder(ctx context.Context, path string) (domain.Order, error)
}
