package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNotAMapping indica que el fichero de decisiones no contiene un mapa YAML.
var ErrNotAMapping = errors.New("decision file is not a YAML mapping")

// FileStore implementa ports.DecisionStore sobre un fichero YAML
// (product_uid: participante). Cada escritura va a un temporal del mismo
// directorio y se renombra encima del original.
type FileStore struct {
	path string
}

// NewFileStore crea un FileStore para path. No toca el disco.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Exists devuelve true si el fichero existe.
func (f *FileStore) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(f.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("storage.FileStore.Exists: %w", err)
}

// Init escribe un fichero vacío.
func (f *FileStore) Init(ctx context.Context) error {
	return f.SaveAll(ctx, map[string]string{})
}

// LoadAll lee y parsea el fichero completo.
func (f *FileStore) LoadAll(_ context.Context) (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("storage.FileStore.LoadAll: read %q: %w", f.path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage.FileStore.LoadAll: parse %q: %w", f.path, err)
	}
	// Un fichero vacío o "null" no es una caché vacía: Init siempre escribe {}.
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("storage.FileStore.LoadAll: %q: %w", f.path, ErrNotAMapping)
	}

	out := make(map[string]string)
	if err := doc.Content[0].Decode(&out); err != nil {
		return nil, fmt.Errorf("storage.FileStore.LoadAll: decode %q: %w", f.path, err)
	}
	return out, nil
}

// SaveAll reescribe el fichero de forma atómica (temp + fsync + rename).
func (f *FileStore) SaveAll(_ context.Context, decisions map[string]string) error {
	data, err := yaml.Marshal(decisions)
	if err != nil {
		return fmt.Errorf("storage.FileStore.SaveAll: marshal: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage.FileStore.SaveAll: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op tras el rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage.FileStore.SaveAll: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage.FileStore.SaveAll: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage.FileStore.SaveAll: close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage.FileStore.SaveAll: rename: %w", err)
	}
	return nil
}

// Close no hace nada: el fichero no queda abierto entre operaciones.
func (f *FileStore) Close() error {
	return nil
}
