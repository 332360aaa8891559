package storage

// sqlite.go: almacén de decisiones en SQLite.
//
// Estrategia:
//   - `decisions`: una fila por producto (product_uid → participante).
//   - SaveAll reemplaza la tabla entera dentro de una transacción: un lector
//     ve el estado anterior o el nuevo, nunca uno a medias.
//   - Exists mira sqlite_master; un fichero que no es una base de datos
//     devuelve error aquí y el arranque falla.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
    product_uid TEXT PRIMARY KEY,
    participant TEXT     NOT NULL,
    updated_at  DATETIME NOT NULL
);
`

// SQLiteStore implementa ports.DecisionStore usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada.
// El schema no se aplica aquí: eso es Init, para que Exists tenga sentido.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	return &SQLiteStore{db: db}, nil
}

// Exists devuelve true si la tabla de decisiones ya existe.
func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'decisions'`,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage.Exists: %w", err)
	}
	return n > 0, nil
}

// Init crea la tabla vacía.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("storage.Init: apply schema: %w", err)
	}
	return nil
}

// LoadAll devuelve todas las decisiones.
func (s *SQLiteStore) LoadAll(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT product_uid, participant FROM decisions`)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadAll: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var productID, participant string
		if err := rows.Scan(&productID, &participant); err != nil {
			return nil, fmt.Errorf("storage.LoadAll: scan row: %w", err)
		}
		out[productID] = participant
	}
	return out, rows.Err()
}

// SaveAll reemplaza todas las decisiones en una única transacción.
func (s *SQLiteStore) SaveAll(ctx context.Context, decisions map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveAll: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM decisions`); err != nil {
		return fmt.Errorf("storage.SaveAll: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO decisions (product_uid, participant, updated_at) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveAll: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for productID, participant := range decisions {
		if _, err := stmt.ExecContext(ctx, productID, participant, now); err != nil {
			return fmt.Errorf("storage.SaveAll: insert %s: %w", productID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveAll: commit: %w", err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
