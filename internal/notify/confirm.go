package notify

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// AlwaysConfirm approves every prompt.
type AlwaysConfirm struct{}

func (AlwaysConfirm) Confirm(string) bool { return true }

// Prompt asks on out and reads a y/N answer from in. Anything other than
// "y" or "yes" declines, including EOF.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a terminal Confirmer.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

func (p *Prompt) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
