package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alejandrodnm/grocersplit/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const defaultCurrency = "£"

// Console implementa ports.Renderer imprimiendo una tabla por participante.
type Console struct {
	out      io.Writer
	currency string
}

// NewConsole crea un renderer que escribe a stdout.
func NewConsole(currency string) *Console {
	return NewConsoleWriter(os.Stdout, currency)
}

// NewConsoleWriter crea un renderer sobre w (tests).
func NewConsoleWriter(w io.Writer, currency string) *Console {
	if currency == "" {
		currency = defaultCurrency
	}
	return &Console{out: w, currency: currency}
}

// Render imprime la conciliación y las tablas de todos los participantes.
func (c *Console) Render(_ context.Context, st domain.Statement) error {
	c.printReconciliation(st.Reconciliation)
	for _, p := range domain.Participants() {
		c.printParticipant(st, p)
	}
	return nil
}

// printReconciliation imprime una línea OK o un aviso con esperado/real.
func (c *Console) printReconciliation(rec domain.Reconciliation) {
	if rec.Matched {
		fmt.Fprintf(c.out, "\nReconciled: allocated %s of %s\n",
			c.money(rec.Actual), c.money(rec.Expected))
		return
	}
	fmt.Fprintf(c.out, "\n⚠ WARNING: allocated total does not match the order\n")
	fmt.Fprintf(c.out, "  Expected %s but allocated %s (diff %s)\n",
		c.money(rec.Expected), c.money(rec.Actual), c.money(rec.Actual-rec.Expected))
}

// printParticipant imprime la tabla de un participante con su parte de la
// entrega y el total a pagar.
func (c *Console) printParticipant(st domain.Statement, p domain.Participant) {
	fmt.Fprintf(c.out, "\n── %s ──\n", p)

	table := tablewriter.NewWriter(c.out)
	table.Header("Item", "Quantity", "Cost")

	for _, it := range st.Ledger.Items(p) {
		table.Append(it.Name, domain.FormatQuantity(it.Quantity), c.money(it.Cost))
	}
	table.Append("Delivery Cost", domain.FormatQuantity(st.DeliveryQuantity()), c.money(st.DeliveryShare()))
	table.Append("TOTAL", "", c.money(st.TotalFor(p)))

	table.Render()
}

func (c *Console) money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-%s%.2f", c.currency, -v)
	}
	return fmt.Sprintf("%s%.2f", c.currency, v)
}
