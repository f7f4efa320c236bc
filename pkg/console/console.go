// Package console renders the per-phase status lines of the CLI. Log records
// go through pkg/logging; this package only covers the human-facing progress
// output.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/chainrig/chainrig/pkg/logging"

	"github.com/logrusorgru/aurora"
)

// Console writes colored status lines. Colors are disabled automatically when
// the writer is not a terminal.
type Console struct {
	au aurora.Aurora
	w  io.Writer
}

// New constructs a console writing to stdout.
func New() *Console {
	return NewWithWriter(os.Stdout, logging.IsTerminal())
}

// NewWithWriter constructs a console writing to w.
func NewWithWriter(w io.Writer, colors bool) *Console {
	return &Console{
		au: aurora.NewAurora(colors),
		w:  w,
	}
}

// Banner prints a yellow headline for a phase.
func (c *Console) Banner(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.au.Yellow(fmt.Sprintf(format, args...)))
}

// OK prints a green success line.
func (c *Console) OK(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.au.Green(fmt.Sprintf(format, args...)))
}

// Fail prints a red failure line.
func (c *Console) Fail(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.au.Red(fmt.Sprintf(format, args...)))
}

// Info prints an uncolored progress line.
func (c *Console) Info(format string, args ...interface{}) {
	fmt.Fprintf(c.w, format+"\n", args...)
}
