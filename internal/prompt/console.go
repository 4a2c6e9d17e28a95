// Package prompt asks the operator for the values the CSV load needs:
// the file path, a type per column, whether to create the table and
// which table to load into.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pgload/pgload/internal/tui/components"
	"github.com/pgload/pgload/internal/ui"
	"github.com/pgload/pgload/pkg/pgload"
)

// ChooseFunc shows a list of options and returns the one picked.
type ChooseFunc func(ctx context.Context, title string, options []string) (string, error)

// Console implements pgload.Prompter on a line-oriented reader and writer.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	choose ChooseFunc
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithChooser replaces the typed table choice with fn.
func WithChooser(fn ChooseFunc) ConsoleOption {
	return func(c *Console) {
		c.choose = fn
	}
}

// WithSelector makes Choose show the arrow-key selector on in/out.
func WithSelector(in io.Reader, out io.Writer) ConsoleOption {
	return WithChooser(func(ctx context.Context, title string, options []string) (string, error) {
		return components.RunSelector(ctx, title, components.OptionsFromStrings(options), in, out)
	})
}

// NewConsole creates a Console reading answers from in and writing labels to out.
func NewConsole(in io.Reader, out io.Writer, opts ...ConsoleOption) *Console {
	c := &Console{in: bufio.NewReader(in), out: out}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask prints label as-is and returns the trimmed answer.
func (c *Console) Ask(ctx context.Context, label string) (string, error) {
	fmt.Fprint(c.out, label)

	answer, err := ui.ReadLine(ctx, c.in)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no answer to %q: %w", strings.TrimSpace(label), io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return answer, nil
}

// Choose lists options after title and reads the typed answer. With a
// chooser configured and at least one option, the chooser is used instead.
func (c *Console) Choose(ctx context.Context, title string, options []string) (string, error) {
	if c.choose != nil && len(options) > 0 {
		return c.choose(ctx, title, options)
	}
	return c.Ask(ctx, title+" "+strings.Join(options, ", ")+"\n\nOption: ")
}

var _ pgload.Prompter = (*Console)(nil)
