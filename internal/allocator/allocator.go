package allocator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/grocersplit/internal/decisions"
	"github.com/alejandrodnm/grocersplit/internal/domain"
	"github.com/alejandrodnm/grocersplit/internal/ports"
	"github.com/shopspring/decimal"
)

var errInvalidRatio = errors.New("ratio is not a number")

// Allocator recorre el pedido línea a línea y convierte cada una en
// asignaciones del ledger. Usa la caché de decisiones y, si no hay entrada,
// pregunta al operador.
type Allocator struct {
	prompter ports.Prompter
	cache    *decisions.Cache
	out      io.Writer
}

// New crea un Allocator. out recibe la conversación con el operador.
func New(prompter ports.Prompter, cache *decisions.Cache, out io.Writer) *Allocator {
	return &Allocator{prompter: prompter, cache: cache, out: out}
}

// Run valida los totales, despacha cada línea en el orden del pedido y
// concilia el resultado. Un pedido incoherente se rechaza antes de asignar
// nada; un descuadre en la conciliación no es un error.
func (a *Allocator) Run(ctx context.Context, order domain.Order) (domain.Statement, error) {
	if err := order.Validate(); err != nil {
		return domain.Statement{}, fmt.Errorf("allocator.Run: %w", err)
	}

	ledger := domain.NewLedger()
	for _, item := range order.Items {
		if err := ctx.Err(); err != nil {
			return domain.Statement{}, fmt.Errorf("allocator.Run: %w", err)
		}
		fmt.Fprintf(a.out, "Ordered %s of %s for £%.2f (£%.2f each)\n",
			domain.FormatQuantity(item.Quantity), item.Name, item.TotalCost, item.UnitCost())

		if err := a.Allocate(ctx, ledger, item); err != nil {
			return domain.Statement{}, fmt.Errorf("allocator.Run: item %s: %w", item.ID, err)
		}
	}

	rec := domain.Reconcile(ledger, order.SubTotal)
	if !rec.Matched {
		slog.Warn("allocated total does not match order sub total",
			"order", order.ID,
			"expected", rec.Expected,
			"actual", rec.Actual,
		)
	}

	slog.Info("order allocated",
		"order", order.ID,
		"items", len(order.Items),
		"allocations", ledger.Len(),
		"matched", rec.Matched,
	)

	return domain.Statement{
		OrderID:        order.ID,
		SlotPrice:      order.SlotPrice,
		Ledger:         ledger,
		Reconciliation: rec,
	}, nil
}

// Allocate resuelve la estrategia de una línea: una decisión cacheada se
// aplica sin preguntar, si no elige el operador.
func (a *Allocator) Allocate(ctx context.Context, ledger *domain.Ledger, item domain.LineItem) error {
	if p, ok := a.cache.Lookup(item.ID); ok {
		slog.Debug("cached decision", "product", item.ID, "participant", p)
		a.assign(ledger, p, item)
		return nil
	}
	return a.decide(ctx, ledger, item)
}

// decide ofrece la misma línea hasta que se aplica una opción válida.
func (a *Allocator) decide(ctx context.Context, ledger *domain.Ledger, item domain.LineItem) error {
	prompt := fmt.Sprintf("Choose option: (%s) ", domain.ChoiceKeys())
	for {
		key, err := a.prompter.ReadKey(prompt)
		if err != nil {
			return fmt.Errorf("read choice: %w", err)
		}

		choice, ok := domain.ChoiceForKey(key)
		if !ok {
			fmt.Fprintf(a.out, "Invalid choice %q, try again\n", key)
			continue
		}

		err = a.apply(ctx, ledger, choice, item)
		if errors.Is(err, ErrNothingToSplit) {
			fmt.Fprintf(a.out, "%s has nothing to split, choose another option\n", item.Name)
			continue
		}
		return err
	}
}

func (a *Allocator) apply(ctx context.Context, ledger *domain.Ledger, choice domain.Choice, item domain.LineItem) error {
	switch choice.Kind {
	case domain.AssignWhole:
		a.assign(ledger, choice.Participant, item)
		return nil

	case domain.AssignRemember:
		fmt.Fprintln(a.out, "Caching decision")
		a.assign(ledger, choice.Participant, item)
		return a.cache.Remember(ctx, item.ID, choice.Participant)

	case domain.SplitEqual:
		fmt.Fprintf(a.out, "Splitting %s equally\n", item)
		SplitEqual(ledger, item)
		return nil

	case domain.SplitRatio:
		return a.splitByRatio(ledger, item)

	case domain.Ignore:
		fmt.Fprintf(a.out, "Ignoring %s\n", item)
		return nil
	}
	return fmt.Errorf("allocator: unhandled strategy %s", choice.Kind)
}

func (a *Allocator) assign(ledger *domain.Ledger, p domain.Participant, item domain.LineItem) {
	fmt.Fprintf(a.out, "Assigned %s %s\n", p, item)
	AssignWhole(ledger, p, item)
}

// splitByRatio pide un ratio por participante y vuelve a empezar hasta que
// sumen la cantidad de la línea.
func (a *Allocator) splitByRatio(ledger *domain.Ledger, item domain.LineItem) error {
	if item.Quantity <= 0 {
		return ErrNothingToSplit
	}
	fmt.Fprintf(a.out, "Splitting %s, %s units available\n", item, domain.FormatQuantity(item.Quantity))

	for {
		ratios, err := a.readRatios()
		if errors.Is(err, errInvalidRatio) {
			fmt.Fprintf(a.out, "%v, start again\n", err)
			continue
		}
		if err != nil {
			return err
		}

		err = SplitByRatio(ledger, item, ratios)
		if errors.Is(err, ErrRatioMismatch) {
			fmt.Fprintf(a.out, "Ratios must add up to %s, start again\n", domain.FormatQuantity(item.Quantity))
			slog.Debug("ratio split rejected", "product", item.ID, "err", err)
			continue
		}
		return err
	}
}

// readRatios pide el ratio de cada participante en orden. Vacío equivale a 0.
func (a *Allocator) readRatios() (map[domain.Participant]decimal.Decimal, error) {
	ratios := make(map[domain.Participant]decimal.Decimal)
	for _, p := range domain.Participants() {
		line, err := a.prompter.ReadLine(fmt.Sprintf("Enter ratio for %s: ", p))
		if err != nil {
			return nil, fmt.Errorf("read ratio: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			ratios[p] = decimal.Zero
			continue
		}
		r, err := decimal.NewFromString(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errInvalidRatio, line)
		}
		ratios[p] = r
	}
	return ratios, nil
}
