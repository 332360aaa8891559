package printer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/grocersplit/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"
)

const defaultCutDelay = 5 * time.Second

// Config controla el dispositivo y el ritmo de impresión.
type Config struct {
	Header   string        // primera línea de cada ticket, centrada
	Currency string        // símbolo monetario
	CutDelay time.Duration // pausa entre tickets para poder cortarlos
}

// Receipt implementa ports.Renderer imprimiendo un ticket ESC/POS por
// participante. Entre tickets espera CutDelay (limitador de x/time/rate).
type Receipt struct {
	out     io.Writer
	cfg     Config
	limiter *rate.Limiter
}

// NewReceipt crea un renderer sobre w.
func NewReceipt(w io.Writer, cfg Config) *Receipt {
	if cfg.CutDelay <= 0 {
		cfg.CutDelay = defaultCutDelay
	}
	if cfg.Currency == "" {
		cfg.Currency = "£"
	}
	return &Receipt{
		out:     w,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.CutDelay), 1),
	}
}

// Open abre el dispositivo de la impresora (p.ej. /dev/usb/lp0) para escritura.
// El llamador cierra el fichero devuelto.
func Open(device string) (*os.File, error) {
	f, err := os.OpenFile(device, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("printer.Open: %q: %w", device, err)
	}
	return f, nil
}

// Render imprime un ticket por participante, en orden de presentación.
func (r *Receipt) Render(ctx context.Context, st domain.Statement) error {
	for _, p := range domain.Participants() {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("printer.Render: wait for cut: %w", err)
		}

		ticket, err := r.build(st, p)
		if err != nil {
			return fmt.Errorf("printer.Render: %s: %w", p, err)
		}
		if _, err := r.out.Write(ticket); err != nil {
			return fmt.Errorf("printer.Render: write %s: %w", p, err)
		}
		slog.Info("receipt printed", "participant", p, "bytes", len(ticket))
	}
	return nil
}

// build genera el stream ESC/POS completo de un ticket.
func (r *Receipt) build(st domain.Statement, p domain.Participant) ([]byte, error) {
	var b bytes.Buffer
	enc := encoding.ReplaceUnsupported(charmap.CodePage858.NewEncoder())

	text := func(format string, args ...any) error {
		s, err := enc.String(fmt.Sprintf(format, args...))
		if err != nil {
			return fmt.Errorf("encode %q: %w", format, err)
		}
		b.WriteString(s)
		b.WriteByte('\n')
		return nil
	}

	b.Write(cmdInit)
	b.Write(cmdCodePage858)

	b.Write(cmdAlignCenter)
	b.Write(cmdFontA)
	if r.cfg.Header != "" {
		if err := text("%s", r.cfg.Header); err != nil {
			return nil, err
		}
		b.Write(cmdFeed(1))
	}
	b.Write(cmdBoldOn)
	if err := text("%s", p); err != nil {
		return nil, err
	}
	b.Write(cmdBoldOff)
	b.Write(cmdFeed(1))

	b.Write(cmdAlignLeft)
	b.Write(cmdFontB)
	for _, it := range st.Ledger.Items(p) {
		if err := text("%s %s %s%.2f", domain.FormatQuantity(it.Quantity), it.Name, r.cfg.Currency, it.Cost); err != nil {
			return nil, err
		}
	}
	if err := text("%s Delivery %s%.2f", domain.FormatQuantity(st.DeliveryQuantity()), r.cfg.Currency, st.DeliveryShare()); err != nil {
		return nil, err
	}

	b.Write(cmdAlignCenter)
	b.Write(cmdFontA)
	b.Write(cmdFeed(1))
	if err := text("Total cost: %s%.2f", r.cfg.Currency, st.TotalFor(p)); err != nil {
		return nil, err
	}
	b.Write(cmdFeed(3))
	b.Write(cmdPartialCut)

	return b.Bytes(), nil
}
