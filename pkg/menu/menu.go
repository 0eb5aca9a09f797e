// Package menu implements the numbered-choice prompts of the interactive CLI.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// InputError is returned for a selection that is not a listed number.
type InputError struct {
	Input string
	Max   int
	Err   error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid selection %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("invalid selection %q: choose a number between 1 and %d", e.Input, e.Max)
}

func (e *InputError) Unwrap() error { return e.Err }

// Prompter prints menus to out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Choose prints the options as a 1-based numbered list under title, asks
// prompt, and returns the zero-based index of the chosen option.
func (p *Prompter) Choose(title, prompt string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("no options to choose from")
	}

	fmt.Fprintln(p.out, title)
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(p.out, "\n%s", prompt)

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return 0, &InputError{Err: io.ErrUnexpectedEOF}
		}
		return 0, fmt.Errorf("failed to read selection: %w", err)
	}

	input := strings.TrimSpace(line)
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, &InputError{Input: input, Max: len(options), Err: errors.New("not a number")}
	}
	if n < 1 || n > len(options) {
		return 0, &InputError{Input: input, Max: len(options)}
	}

	return n - 1, nil
}
