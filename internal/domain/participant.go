package domain

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrUnknownParticipant se devuelve cuando una identidad persistida no
// corresponde a ningún participante conocido.
var ErrUnknownParticipant = errors.New("unknown participant")

// Participant es uno de los miembros fijos del hogar que comparten el pedido.
// El conjunto es cerrado: no se crean participantes en runtime.
type Participant uint8

const (
	Dan Participant = iota + 1
	Tim
)

// participants fija el orden de presentación (tablas, tickets, ratios).
var participants = []Participant{Dan, Tim}

// Participants devuelve todos los participantes en orden de presentación.
func Participants() []Participant {
	out := make([]Participant, len(participants))
	copy(out, participants)
	return out
}

// Key devuelve la tecla en minúscula que asigna un item a este participante.
func (p Participant) Key() rune {
	switch p {
	case Dan:
		return 'd'
	case Tim:
		return 't'
	default:
		return 0
	}
}

// String devuelve el nombre para mostrar.
func (p Participant) String() string {
	switch p {
	case Dan:
		return "DAN"
	case Tim:
		return "TIM"
	default:
		return fmt.Sprintf("Participant(%d)", uint8(p))
	}
}

// ID es la identidad estable usada al persistir decisiones.
func (p Participant) ID() string {
	return string(p.Key())
}

// Valid devuelve true si p pertenece al conjunto conocido.
func (p Participant) Valid() bool {
	return p.Key() != 0
}

// ParseParticipant convierte una identidad persistida a Participant.
func ParseParticipant(id string) (Participant, error) {
	for _, p := range participants {
		if p.ID() == id {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
}

// participantForKey resuelve una tecla (en cualquier caso) a su participante.
func participantForKey(key rune) (Participant, bool) {
	lower := unicode.ToLower(key)
	for _, p := range participants {
		if p.Key() == lower {
			return p, true
		}
	}
	return 0, false
}
