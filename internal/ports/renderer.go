package ports

import (
	"context"

	"github.com/alejandrodnm/grocersplit/internal/domain"
)

// Renderer presenta el resultado de una ejecución (consola, ticket impreso).
type Renderer interface {
	// Render recibe acceso de solo lectura al ledger del Statement.
	Render(ctx context.Context, st domain.Statement) error
}
