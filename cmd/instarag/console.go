package main

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
	"github.com/phrazzld/instarag/internal/ciutil"
)

// console prints startup task progress.
type console struct {
	out     io.Writer
	pending lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	label   lipgloss.Style
}

// newConsole styles its markers unless ciutil.PlainOutput asks for plain text.
func newConsole(out io.Writer) *console {
	c := &console{
		out:     out,
		pending: lipgloss.NewStyle(),
		success: lipgloss.NewStyle(),
		failure: lipgloss.NewStyle(),
		label:   lipgloss.NewStyle(),
	}
	if !ciutil.PlainOutput() {
		c.pending = c.pending.Foreground(lipgloss.Color("3"))
		c.success = c.success.Foreground(lipgloss.Color("2")).Bold(true)
		c.failure = c.failure.Foreground(lipgloss.Color("1")).Bold(true)
		c.label = c.label.Faint(true)
	}
	return c
}

// task runs fn between a pending line and a completed or failed line. The
// failure line carries diagnose(err), so callers decide what is safe to print.
func (c *console) task(name string, fn func() error, diagnose func(error) string) error {
	fmt.Fprintf(c.out, "%s %s...\n", c.pending.Render("[⏳]"), name)
	if err := fn(); err != nil {
		fmt.Fprintf(c.out, "%s %s Failed: %s\n", c.failure.Render("[✖]"), name, diagnose(err))
		return &reportedError{err: err}
	}
	fmt.Fprintf(c.out, "%s %s Completed\n", c.success.Render("[✔]"), name)
	return nil
}

// detail prints an indented key/value line.
func (c *console) detail(key string, value any) {
	fmt.Fprintf(c.out, "    %s %v\n", c.label.Render(key+":"), value)
}
