package ports

import "context"

// DecisionStore persiste la caché de decisiones (product_uid → participante).
// La caché se carga entera en memoria y se reescribe entera en cada cambio.
type DecisionStore interface {
	// Exists devuelve true si ya hay un almacén inicializado.
	Exists(ctx context.Context) (bool, error)

	// Init crea un almacén vacío.
	Init(ctx context.Context) error

	// LoadAll devuelve todas las decisiones. Las identidades de participante
	// se devuelven tal como se persistieron.
	LoadAll(ctx context.Context) (map[string]string, error)

	// SaveAll reemplaza atómicamente el contenido del almacén.
	SaveAll(ctx context.Context, decisions map[string]string) error

	// Close libera los recursos del almacén.
	Close() error
}
