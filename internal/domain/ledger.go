package domain

// AllocatedItem es la porción de un LineItem atribuida a un participante.
// Quantity y Cost pueden ser fraccionarios en los repartos.
type AllocatedItem struct {
	ID       string
	Name     string
	Quantity float64
	Cost     float64
}

// Ledger acumula, por participante, los items asignados en orden de
// asignación. Se construye una vez por ejecución y no se persiste.
type Ledger struct {
	entries map[Participant][]AllocatedItem
}

// NewLedger crea un ledger vacío con una entrada por participante.
func NewLedger() *Ledger {
	l := &Ledger{entries: make(map[Participant][]AllocatedItem, len(participants))}
	for _, p := range participants {
		l.entries[p] = nil
	}
	return l
}

// Append añade una asignación al final de la lista de p.
func (l *Ledger) Append(p Participant, item AllocatedItem) {
	l.entries[p] = append(l.entries[p], item)
}

// Items devuelve una copia de las asignaciones de p.
func (l *Ledger) Items(p Participant) []AllocatedItem {
	items := l.entries[p]
	out := make([]AllocatedItem, len(items))
	copy(out, items)
	return out
}

// Allocated devuelve el coste asignado a p.
func (l *Ledger) Allocated(p Participant) float64 {
	total := 0.0
	for _, it := range l.entries[p] {
		total += it.Cost
	}
	return total
}

// Total devuelve el coste asignado sumando todos los participantes.
func (l *Ledger) Total() float64 {
	total := 0.0
	for _, p := range participants {
		total += l.Allocated(p)
	}
	return total
}

// Len devuelve el número total de asignaciones.
func (l *Ledger) Len() int {
	n := 0
	for _, items := range l.entries {
		n += len(items)
	}
	return n
}
