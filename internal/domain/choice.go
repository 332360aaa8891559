package domain

import (
	"strings"
	"unicode"
)

// StrategyKind identifica la política que convierte un item en asignaciones.
type StrategyKind uint8

const (
	// AssignWhole asigna el item completo a un participante.
	AssignWhole StrategyKind = iota + 1
	// AssignRemember asigna el item completo y recuerda la decisión.
	AssignRemember
	// SplitEqual reparte cantidad y coste a partes iguales.
	SplitEqual
	// SplitRatio reparte según las proporciones que introduce el operador.
	SplitRatio
	// Ignore descarta el item de todos los totales.
	Ignore
)

const (
	keySplitEqual = 's'
	keySplitRatio = 'r'
	keyIgnore     = 'i'
)

// String devuelve el nombre legible de la estrategia.
func (k StrategyKind) String() string {
	switch k {
	case AssignWhole:
		return "assign"
	case AssignRemember:
		return "assign+remember"
	case SplitEqual:
		return "split"
	case SplitRatio:
		return "ratio"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Choice es la decisión del operador para un item. Participant solo tiene
// sentido para AssignWhole y AssignRemember.
type Choice struct {
	Kind        StrategyKind
	Participant Participant
}

// ChoiceForKey traduce una tecla a su Choice. Devuelve false si la tecla no
// corresponde a ninguna estrategia.
func ChoiceForKey(key rune) (Choice, bool) {
	switch key {
	case keySplitEqual:
		return Choice{Kind: SplitEqual}, true
	case keySplitRatio:
		return Choice{Kind: SplitRatio}, true
	case keyIgnore:
		return Choice{Kind: Ignore}, true
	}

	p, ok := participantForKey(key)
	if !ok {
		return Choice{}, false
	}
	if unicode.IsUpper(key) {
		return Choice{Kind: AssignRemember, Participant: p}, true
	}
	if unicode.IsLower(key) {
		return Choice{Kind: AssignWhole, Participant: p}, true
	}
	return Choice{}, false
}

// ChoiceKeys devuelve las teclas válidas separadas por "/" para el prompt:
// primero las de asignación, luego las de recordar, luego el resto.
func ChoiceKeys() string {
	keys := make([]string, 0, len(participants)*2+3)
	for _, p := range participants {
		keys = append(keys, string(p.Key()))
	}
	for _, p := range participants {
		keys = append(keys, string(unicode.ToUpper(p.Key())))
	}
	keys = append(keys, string(keySplitEqual), string(keySplitRatio), string(keyIgnore))
	return strings.Join(keys, "/")
}
