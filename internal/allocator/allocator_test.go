package allocator_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/alejandrodnm/grocersplit/internal/adapters/notify"
	"github.com/alejandrodnm/grocersplit/internal/allocator"
	"github.com/alejandrodnm/grocersplit/internal/decisions"
	"github.com/alejandrodnm/grocersplit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

// scriptedPrompter devuelve las teclas y líneas en orden; io.EOF al agotarse.
type scriptedPrompter struct {
	keys      []rune
	lines     []string
	keyCalls  int
	lineCalls int
}

func (s *scriptedPrompter) ReadKey(_ string) (rune, error) {
	if s.keyCalls >= len(s.keys) {
		return 0, io.EOF
	}
	r := s.keys[s.keyCalls]
	s.keyCalls++
	return r, nil
}

func (s *scriptedPrompter) ReadLine(_ string) (string, error) {
	if s.lineCalls >= len(s.lines) {
		return "", io.EOF
	}
	l := s.lines[s.lineCalls]
	s.lineCalls++
	return l, nil
}

type memStore struct {
	data  map[string]string
	saves int
}

func (m *memStore) Exists(_ context.Context) (bool, error) { return m.data != nil, nil }

func (m *memStore) Init(_ context.Context) error {
	m.data = map[string]string{}
	return nil
}

func (m *memStore) LoadAll(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) SaveAll(_ context.Context, d map[string]string) error {
	m.saves++
	m.data = d
	return nil
}

func (m *memStore) Close() error { return nil }

// --- helpers ---

func newCache(t *testing.T, store *memStore) *decisions.Cache {
	t.Helper()
	c, err := decisions.Load(context.Background(), store)
	require.NoError(t, err)
	return c
}

func newAllocator(t *testing.T, p *scriptedPrompter, store *memStore) (*allocator.Allocator, *decisions.Cache, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	c := newCache(t, store)
	return allocator.New(p, c, &out), c, &out
}

func bread() domain.LineItem {
	return domain.LineItem{ID: "X", Name: "Bread", Quantity: 1, TotalCost: 10}
}

func singleItemOrder(subTotal float64, item domain.LineItem) domain.Order {
	return domain.Order{ID: "1001", SubTotal: subTotal, SlotPrice: 2, Total: subTotal + 2, Items: []domain.LineItem{item}}
}

// --- end-to-end ---

func TestRun_AssignAndRemember(t *testing.T) {
	store := &memStore{}
	p := &scriptedPrompter{keys: []rune{'D'}}
	a, cache, out := newAllocator(t, p, store)

	st, err := a.Run(context.Background(), singleItemOrder(10, bread()))
	require.NoError(t, err)

	assert.Equal(t, []domain.AllocatedItem{{ID: "X", Name: "Bread", Quantity: 1, Cost: 10}}, st.Ledger.Items(domain.Dan))
	assert.Empty(t, st.Ledger.Items(domain.Tim))

	got, ok := cache.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, domain.Dan, got)
	assert.Equal(t, map[string]string{"X": "d"}, store.data)

	assert.Equal(t, domain.Reconciliation{Expected: 10, Actual: 10, Matched: true}, st.Reconciliation)
	assert.InDelta(t, 11.0, st.TotalFor(domain.Dan), 1e-9)
	assert.Contains(t, out.String(), "Caching decision")
	assert.Contains(t, out.String(), "Ordered 1 of Bread for £10.00 (£10.00 each)")
}

func TestRun_SubTotalMismatchStillCompletes(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'d', 't'}}
	a, _, _ := newAllocator(t, p, &memStore{})

	order := domain.Order{
		ID:        "1003",
		SubTotal:  12.00, // las líneas suman 11.50
		SlotPrice: 2,
		Total:     14,
		Items: []domain.LineItem{
			bread(),
			{ID: "Y", Name: "Milk", Quantity: 1, TotalCost: 1.5},
		},
	}

	st, err := a.Run(context.Background(), order)
	require.NoError(t, err)

	assert.False(t, st.Reconciliation.Matched)
	assert.Equal(t, 12.0, st.Reconciliation.Expected)
	assert.Equal(t, 11.5, st.Reconciliation.Actual)
	assert.Len(t, st.Ledger.Items(domain.Dan), 1)
	assert.Len(t, st.Ledger.Items(domain.Tim), 1)

	// El descuadre se avisa y se imprimen igualmente las tablas de ambos
	var report bytes.Buffer
	require.NoError(t, notify.NewConsoleWriter(&report, "£").Render(context.Background(), st))
	got := report.String()
	assert.Contains(t, got, "WARNING")
	assert.Contains(t, got, "Expected £12.00 but allocated £11.50")
	assert.Contains(t, got, "── DAN ──")
	assert.Contains(t, got, "── TIM ──")
	assert.Contains(t, got, "Bread")
	assert.Contains(t, got, "Milk")
}

func TestRun_InconsistentTotalsAbortsBeforeAllocating(t *testing.T) {
	store := &memStore{}
	p := &scriptedPrompter{keys: []rune{'D'}}
	a, _, _ := newAllocator(t, p, store)

	order := singleItemOrder(10, bread())
	order.Total = 15

	_, err := a.Run(context.Background(), order)
	assert.ErrorIs(t, err, domain.ErrInconsistentTotals)
	assert.Equal(t, 0, p.keyCalls)
	assert.Equal(t, 0, store.saves)
}

func TestRun_PrompterFailureIsFatal(t *testing.T) {
	p := &scriptedPrompter{} // sin entrada
	a, _, _ := newAllocator(t, p, &memStore{})

	_, err := a.Run(context.Background(), singleItemOrder(10, bread()))
	assert.ErrorIs(t, err, io.EOF)
}

func TestRun_CancelledContext(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'d'}}
	a, _, _ := newAllocator(t, p, &memStore{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Run(ctx, singleItemOrder(10, bread()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, p.keyCalls)
}

// --- cache idempotence ---

func TestAllocate_CachedDecisionSkipsPrompt(t *testing.T) {
	store := &memStore{data: map[string]string{"X": "t"}}
	p := &scriptedPrompter{}
	a, _, _ := newAllocator(t, p, store)

	ledger := domain.NewLedger()
	for i := 0; i < 5; i++ {
		require.NoError(t, a.Allocate(context.Background(), ledger, bread()))
	}

	assert.Equal(t, 0, p.keyCalls)
	assert.Equal(t, 0, store.saves, "un acierto de caché no vuelve a recordar")
	items := ledger.Items(domain.Tim)
	require.Len(t, items, 5)
	for _, it := range items {
		assert.Equal(t, domain.AllocatedItem{ID: "X", Name: "Bread", Quantity: 1, Cost: 10}, it)
	}
	assert.Empty(t, ledger.Items(domain.Dan))
}

func TestAllocate_RememberedDecisionReusedInSameRun(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'T'}}
	a, _, _ := newAllocator(t, p, &memStore{})

	order := domain.Order{ID: "1", SubTotal: 20, SlotPrice: 0, Total: 20, Items: []domain.LineItem{bread(), bread()}}
	st, err := a.Run(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, 1, p.keyCalls)
	assert.Len(t, st.Ledger.Items(domain.Tim), 2)
}

// --- invalid key ---

func TestAllocate_InvalidKeyReoffersSameItem(t *testing.T) {
	store := &memStore{}
	p := &scriptedPrompter{keys: []rune{'x', '?', 0, 't'}}
	a, cache, out := newAllocator(t, p, store)

	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, bread()))

	assert.Equal(t, 4, p.keyCalls)
	assert.Equal(t, 1, ledger.Len())
	assert.Len(t, ledger.Items(domain.Tim), 1)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, store.saves)
	assert.Contains(t, out.String(), "Invalid choice 'x'")
}

// --- ignore ---

func TestAllocate_IgnoreIsInert(t *testing.T) {
	store := &memStore{}
	p := &scriptedPrompter{keys: []rune{'i'}}
	a, cache, _ := newAllocator(t, p, store)

	order := singleItemOrder(10, bread())
	st, err := a.Run(context.Background(), order)
	require.NoError(t, err)

	assert.Equal(t, 0, st.Ledger.Len())
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0.0, st.Reconciliation.Actual)
	assert.False(t, st.Reconciliation.Matched)
}

// --- split equal ---

func TestAllocate_SplitEqual(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'s'}}
	a, _, _ := newAllocator(t, p, &memStore{})

	item := domain.LineItem{ID: "B", Name: "Bananas", Quantity: 3, TotalCost: 4.5}
	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, item))

	for _, who := range domain.Participants() {
		items := ledger.Items(who)
		require.Len(t, items, 1)
		assert.InDelta(t, 1.5, items[0].Quantity, 1e-9)
		assert.InDelta(t, 2.25, items[0].Cost, 1e-9)
	}
}

// --- ratio split ---

func TestAllocate_RatioRejectsThenAccepts(t *testing.T) {
	p := &scriptedPrompter{
		keys:  []rune{'r'},
		lines: []string{"1", "1", "1", "2"},
	}
	a, _, out := newAllocator(t, p, &memStore{})

	item := domain.LineItem{ID: "C", Name: "Cheese", Quantity: 3, TotalCost: 9}
	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, item))

	assert.Equal(t, 4, p.lineCalls)
	assert.Contains(t, out.String(), "Ratios must add up to 3")

	dan := ledger.Items(domain.Dan)
	tim := ledger.Items(domain.Tim)
	require.Len(t, dan, 1, "el intento rechazado no deja rastro")
	require.Len(t, tim, 1)
	assert.Equal(t, 1.0, dan[0].Quantity)
	assert.Equal(t, 2.0, tim[0].Quantity)
	assert.InDelta(t, 3.0, dan[0].Cost, 1e-9)
	assert.InDelta(t, 6.0, tim[0].Cost, 1e-9)
}

func TestAllocate_RatioBlankMeansZero(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'r'}, lines: []string{"", "2"}}
	a, _, _ := newAllocator(t, p, &memStore{})

	item := domain.LineItem{ID: "M", Name: "Milk", Quantity: 2, TotalCost: 2.7}
	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, item))

	assert.Equal(t, 0.0, ledger.Items(domain.Dan)[0].Quantity)
	assert.Equal(t, 0.0, ledger.Items(domain.Dan)[0].Cost)
	assert.InDelta(t, 2.7, ledger.Items(domain.Tim)[0].Cost, 1e-9)
}

func TestAllocate_RatioGarbageRestarts(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'r'}, lines: []string{"two", "0.5", "0.5"}}
	a, _, out := newAllocator(t, p, &memStore{})

	item := domain.LineItem{ID: "E", Name: "Eggs", Quantity: 1, TotalCost: 3}
	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, item))

	assert.Equal(t, 3, p.lineCalls)
	assert.Contains(t, out.String(), "start again")
	assert.InDelta(t, 1.5, ledger.Items(domain.Dan)[0].Cost, 1e-9)
}

func TestAllocate_RatioDecimalSumIsExact(t *testing.T) {
	// 0.1 + 0.2 no es 0.3 en float64, pero sí en decimal
	p := &scriptedPrompter{keys: []rune{'r'}, lines: []string{"0.1", "0.2"}}
	a, _, _ := newAllocator(t, p, &memStore{})

	item := domain.LineItem{ID: "F", Name: "Flour", Quantity: 0.3, TotalCost: 0.9}
	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, item))
	assert.Equal(t, 2, p.lineCalls)
}

func TestAllocate_RatioZeroQuantityReoffersChoice(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'r', 'd'}}
	a, _, out := newAllocator(t, p, &memStore{})

	item := domain.LineItem{ID: "Z", Name: "Bag charge", Quantity: 0, TotalCost: 0}
	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, item))

	assert.Equal(t, 2, p.keyCalls)
	assert.Equal(t, 0, p.lineCalls)
	assert.Contains(t, out.String(), "nothing to split")
	assert.Len(t, ledger.Items(domain.Dan), 1)
}

func TestAllocate_RatioNegativeQuantityReoffersChoice(t *testing.T) {
	p := &scriptedPrompter{keys: []rune{'r', 't'}}
	a, _, out := newAllocator(t, p, &memStore{})

	item := domain.LineItem{ID: "R", Name: "Refund", Quantity: -1, TotalCost: -2.5}
	ledger := domain.NewLedger()
	require.NoError(t, a.Allocate(context.Background(), ledger, item))

	assert.Equal(t, 0, p.lineCalls)
	assert.Contains(t, out.String(), "nothing to split")
	assert.Len(t, ledger.Items(domain.Tim), 1)
}
