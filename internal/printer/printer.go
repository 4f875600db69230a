// Package printer writes styled, human-facing status lines for CLI commands.
// Machine-readable output goes to the command's writer instead.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hay-kot/todos/internal/core/styles"
)

type ctxKey struct{}

// Printer writes status lines to a single writer.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{out: w}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one writing to stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok && p != nil {
		return p
	}
	return New(os.Stderr)
}

func (p *Printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, s)
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// Section writes a bold section heading.
func (p *Printer) Section(title string) {
	p.line(styles.SectionStyle.Render(title))
}

// Success writes a check mark, a title and a muted detail.
func (p *Printer) Success(title, detail string) {
	s := styles.SuccessStyle.Render(styles.IconCompleted+" "+title)
	if detail != "" {
		s += " " + styles.MutedStyle.Render(detail)
	}
	p.line(s)
}

// Successf writes a formatted success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.SuccessStyle.Render(styles.IconCompleted + " " + fmt.Sprintf(format, args...)))
}

// Infof writes a formatted, muted informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.MutedStyle.Render("• " + fmt.Sprintf(format, args...)))
}

// Warnf writes a formatted warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.WarningStyle.Render("! " + fmt.Sprintf(format, args...)))
}

// Errorf writes a formatted error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle.Render(styles.IconError + " " + fmt.Sprintf(format, args...)))
}
