package ports

// Prompter lee decisiones del operador. Ambas llamadas bloquean hasta que
// hay entrada disponible.
type Prompter interface {
	// ReadKey muestra prompt y devuelve una sola pulsación.
	ReadKey(prompt string) (rune, error)

	// ReadLine muestra prompt y devuelve una línea sin el salto final.
	ReadLine(prompt string) (string, error)
}
