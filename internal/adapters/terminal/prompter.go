// Package terminal lee las decisiones del operador desde la consola.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// ErrInterrupted se devuelve cuando el operador pulsa Ctrl-C o Ctrl-D
// durante una lectura en modo raw.
var ErrInterrupted = errors.New("input interrupted")

const (
	ctrlC = 0x03
	ctrlD = 0x04
)

// Prompter implementa ports.Prompter. Si la entrada es una TTY, ReadKey lee
// una sola pulsación en modo raw; si no (pipes, tests) lee una línea y usa
// su primer carácter.
type Prompter struct {
	out io.Writer
	in  *bufio.Reader
	fd  int
	tty bool
}

// New crea un Prompter sobre in/out.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{out: out, in: bufio.NewReader(in), fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}
	return p
}

// ReadKey muestra prompt y devuelve una pulsación.
func (p *Prompter) ReadKey(prompt string) (rune, error) {
	fmt.Fprint(p.out, prompt)
	if p.tty {
		return p.readRaw()
	}

	line, err := p.readLine()
	if err != nil {
		return 0, err
	}
	if line == "" {
		return 0, nil // tecla no reconocida
	}
	r, _ := utf8.DecodeRuneInString(line)
	return r, nil
}

// ReadLine muestra prompt y devuelve la línea sin el salto final.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

func (p *Prompter) readRaw() (rune, error) {
	state, err := term.MakeRaw(p.fd)
	if err != nil {
		return 0, fmt.Errorf("terminal.ReadKey: raw mode: %w", err)
	}
	r, _, err := p.in.ReadRune()
	if restoreErr := term.Restore(p.fd, state); restoreErr != nil && err == nil {
		err = fmt.Errorf("terminal.ReadKey: restore: %w", restoreErr)
	}
	fmt.Fprint(p.out, "\r\n")
	if err != nil {
		return 0, err
	}
	if r == ctrlC || r == ctrlD {
		return 0, ErrInterrupted
	}
	return r, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
