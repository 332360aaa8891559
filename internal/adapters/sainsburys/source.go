package sainsburys

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alejandrodnm/grocersplit/internal/domain"
)

// FileSource implementa ports.OrderSource leyendo el JSON exportado de la web.
type FileSource struct{}

// NewFileSource crea un FileSource.
func NewFileSource() *FileSource {
	return &FileSource{}
}

// LoadOrder lee y decodifica el export en path.
func (s *FileSource) LoadOrder(_ context.Context, path string) (domain.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Order{}, fmt.Errorf("sainsburys.LoadOrder: open %q: %w", path, err)
	}
	defer f.Close()

	order, err := Decode(f)
	if err != nil {
		return domain.Order{}, fmt.Errorf("sainsburys.LoadOrder: %q: %w", path, err)
	}
	return order, nil
}

// Decode parsea un export desde r.
func Decode(r io.Reader) (domain.Order, error) {
	var raw orderExport
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return domain.Order{}, fmt.Errorf("decode order: %w", err)
	}
	if raw.OrderUID == "" {
		return domain.Order{}, fmt.Errorf("decode order: missing order_uid")
	}
	return mapOrder(raw), nil
}
