// Package decisions mantiene la memoria persistente de decisiones "pegajosas":
// qué participante se queda siempre con un producto.
package decisions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"github.com/alejandrodnm/grocersplit/internal/domain"
	"github.com/alejandrodnm/grocersplit/internal/ports"
)

// ErrCorrupt indica que el almacén existe pero no se puede leer. Es fatal:
// nunca se sustituye por una caché vacía.
var ErrCorrupt = errors.New("decision cache is unreadable")

// Cache es la caché de decisiones en memoria respaldada por un DecisionStore.
// No es segura para uso concurrente; el proceso es secuencial.
type Cache struct {
	store   ports.DecisionStore
	entries map[string]domain.Participant
}

// Load carga la caché desde store. Si el almacén no existe lo crea vacío y
// lo persiste antes de leerlo.
func Load(ctx context.Context, store ports.DecisionStore) (*Cache, error) {
	exists, err := store.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("decisions.Load: %w: %w", ErrCorrupt, err)
	}
	if !exists {
		slog.Info("decision cache not found, creating empty one")
		if err := store.Init(ctx); err != nil {
			return nil, fmt.Errorf("decisions.Load: init store: %w", err)
		}
	}

	raw, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("decisions.Load: %w: %w", ErrCorrupt, err)
	}

	entries := make(map[string]domain.Participant, len(raw))
	for productID, participantID := range raw {
		p, err := domain.ParseParticipant(participantID)
		if err != nil {
			return nil, fmt.Errorf("decisions.Load: %w: product %q: %w", ErrCorrupt, productID, err)
		}
		entries[productID] = p
	}

	slog.Debug("decision cache loaded", "entries", len(entries))
	return &Cache{store: store, entries: entries}, nil
}

// Lookup devuelve el participante recordado para productID.
func (c *Cache) Lookup(productID string) (domain.Participant, bool) {
	p, ok := c.entries[productID]
	return p, ok
}

// Remember guarda productID → p y persiste la caché completa antes de
// volver. Si la escritura falla, la entrada en memoria se revierte.
func (c *Cache) Remember(ctx context.Context, productID string, p domain.Participant) error {
	prev, had := c.entries[productID]
	c.entries[productID] = p

	if err := c.store.SaveAll(ctx, c.snapshot()); err != nil {
		if had {
			c.entries[productID] = prev
		} else {
			delete(c.entries, productID)
		}
		return fmt.Errorf("decisions.Remember: persist %q: %w", productID, err)
	}
	return nil
}

// Len devuelve el número de decisiones recordadas.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Entries devuelve una copia de las decisiones.
func (c *Cache) Entries() map[string]domain.Participant {
	return maps.Clone(c.entries)
}

func (c *Cache) snapshot() map[string]string {
	out := make(map[string]string, len(c.entries))
	for id, p := range c.entries {
		out[id] = p.ID()
	}
	return out
}
